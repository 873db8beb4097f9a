package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/services/course/internal/models"
)

// CourseFilter narrows course listings. Empty fields are ignored.
type CourseFilter struct {
	Code    string
	Name    string
	Filiere string
	Niveau  string

	// Fold makes filiere and niveau case-insensitive and code and name
	// substring matches.
	Fold bool
}

func (f CourseFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Fold {
		if f.Code != "" {
			q = q.Where("LOWER(code) LIKE ?", "%"+strings.ToLower(f.Code)+"%")
		}
		if f.Name != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
		}
		if f.Filiere != "" {
			q = q.Where("LOWER(filiere) = ?", strings.ToLower(f.Filiere))
		}
		if f.Niveau != "" {
			q = q.Where("LOWER(niveau) = ?", strings.ToLower(f.Niveau))
		}
		return q
	}
	if f.Code != "" {
		q = q.Where("code = ?", f.Code)
	}
	if f.Name != "" {
		q = q.Where("name = ?", f.Name)
	}
	if f.Filiere != "" {
		q = q.Where("filiere = ?", f.Filiere)
	}
	if f.Niveau != "" {
		q = q.Where("niveau = ?", f.Niveau)
	}
	return q
}

func (r *GormRepo) ListCourses(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	courses := make([]models.Course, 0)
	q := f.apply(r.DB.WithContext(ctx).Model(&models.Course{}))
	if err := q.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *GormRepo) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return &course, nil
}

func (r *GormRepo) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Course{}).Count(&n).Error
	return n, err
}

// CodeTaken reports whether another course already uses code. exceptID is
// skipped so a course can keep its own code on update.
func (r *GormRepo) CodeTaken(ctx context.Context, code string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Course{}).Where("code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	err := r.DB.WithContext(ctx).Create(c).Error
	if pkgdb.IsDuplicate(err) {
		return ErrCodeTaken
	}
	return err
}

func (r *GormRepo) CreateCourses(ctx context.Context, cs []models.Course) error {
	return r.DB.WithContext(ctx).Create(&cs).Error
}

func (r *GormRepo) SaveCourse(ctx context.Context, c *models.Course) error {
	err := r.DB.WithContext(ctx).Save(c).Error
	if pkgdb.IsDuplicate(err) {
		return ErrCodeTaken
	}
	return err
}

// DeleteCourse removes the course with its enrollments and schedules in one
// transaction.
func (r *GormRepo) DeleteCourse(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}
