package repo

import (
	"context"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/services/course/internal/models"
)

func (r *GormRepo) IsEnrolled(ctx context.Context, courseID, studentID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	err := r.DB.WithContext(ctx).Create(e).Error
	if pkgdb.IsDuplicate(err) {
		return ErrAlreadyEnrolled
	}
	return err
}

func (r *GormRepo) EnrollmentsByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	out := make([]models.Enrollment, 0)
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) EnrollmentsByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	out := make([]models.Enrollment, 0)
	err := r.DB.WithContext(ctx).Where("course_id = ?", courseID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) GetEnrollment(ctx context.Context, id uint) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := r.DB.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, notFound(err, ErrEnrollmentNotFound)
	}
	return &e, nil
}

func (r *GormRepo) DeleteEnrollment(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Enrollment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
