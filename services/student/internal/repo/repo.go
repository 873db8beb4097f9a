package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/services/student/internal/models"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrHistoryNotFound = errors.New("history record not found")
	ErrStudentExists   = errors.New("student already exists")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(&models.Student{}, &models.AcademicHistory{})
}

type StudentFilter struct {
	Filiere string
	Niveau  string
	Annee   *int
}

func (r *GormRepo) ListStudents(ctx context.Context, f StudentFilter, offset, limit int) ([]models.Student, error) {
	q := r.DB.WithContext(ctx).Model(&models.Student{})
	if f.Filiere != "" {
		q = q.Where("filiere = ?", f.Filiere)
	}
	if f.Niveau != "" {
		q = q.Where("niveau = ?", f.Niveau)
	}
	if f.Annee != nil {
		q = q.Where("annee_inscription = ?", *f.Annee)
	}

	out := make([]models.Student, 0, limit)
	err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// SearchStudents matches q as a case-insensitive substring of the name
// fields, the matricule and the email.
func (r *GormRepo) SearchStudents(ctx context.Context, q string, offset, limit int) ([]models.Student, error) {
	like := "%" + strings.ToLower(q) + "%"
	out := make([]models.Student, 0, limit)
	err := r.DB.WithContext(ctx).
		Where("LOWER(fullname) LIKE ? OR LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(matricule) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like, like).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// StudentsByIDs loads the active students among ids, in the order of ids.
func (r *GormRepo) StudentsByIDs(ctx context.Context, ids []uint) ([]models.Student, error) {
	out := make([]models.Student, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []models.Student
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Student, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *GormRepo) AllStudents(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	var s models.Student
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	var s models.Student
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Taken reports whether an active student other than exceptID already uses
// value in column.
func (r *GormRepo) Taken(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Student{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateStudent(ctx context.Context, s *models.Student) error {
	err := r.DB.WithContext(ctx).Create(s).Error
	if pkgdb.IsDuplicate(err) {
		return ErrStudentExists
	}
	return err
}

func (r *GormRepo) SaveStudent(ctx context.Context, s *models.Student) error {
	err := r.DB.WithContext(ctx).Save(s).Error
	if pkgdb.IsDuplicate(err) {
		return ErrStudentExists
	}
	return err
}

// SoftDeleteStudent stamps deleted_at; the row stays for history.
func (r *GormRepo) SoftDeleteStudent(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Student{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *GormRepo) ListHistory(ctx context.Context, studentID uint) ([]models.AcademicHistory, error) {
	out := make([]models.AcademicHistory, 0)
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *GormRepo) CreateHistory(ctx context.Context, h *models.AcademicHistory) error {
	return r.DB.WithContext(ctx).Create(h).Error
}

func (r *GormRepo) DeleteHistory(ctx context.Context, studentID, historyID uint) error {
	res := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.AcademicHistory{}, historyID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHistoryNotFound
	}
	return nil
}
