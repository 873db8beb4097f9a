package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/services/note/internal/models"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrNoteExists   = errors.New("note already exists")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(&models.Note{})
}

type NoteFilter struct {
	StudentID  uint
	CourseCode string
	TypeExam   string
	Semester   string
}

func (r *GormRepo) ListNotes(ctx context.Context, f NoteFilter, offset, limit int) ([]models.Note, error) {
	q := r.DB.WithContext(ctx).Model(&models.Note{})
	if f.StudentID != 0 {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.CourseCode != "" {
		q = q.Where("course_code = ?", f.CourseCode)
	}
	if f.TypeExam != "" {
		q = q.Where("type_exam = ?", f.TypeExam)
	}
	if f.Semester != "" {
		q = q.Where("semester = ?", f.Semester)
	}

	notes := make([]models.Note, 0, limit)
	if err := q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormRepo) NotesByStudent(ctx context.Context, studentID uint) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).
		Order("course_code ASC").Order("created_at DESC").Order("id DESC").
		Find(&notes).Error
	return notes, err
}

func (r *GormRepo) NotesByCourse(ctx context.Context, code string) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	err := r.DB.WithContext(ctx).Where("course_code = ?", code).
		Order("note DESC").Order("id ASC").
		Find(&notes).Error
	return notes, err
}

func (r *GormRepo) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	var n models.Note
	if err := r.DB.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ExamTaken reports whether the student already has a note for the course
// and exam type. exceptID is ignored so a note does not collide with itself.
func (r *GormRepo) ExamTaken(ctx context.Context, studentID uint, code, typeExam string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Note{}).
		Where("student_id = ? AND course_code = ? AND type_exam = ?", studentID, code, typeExam)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateNote(ctx context.Context, n *models.Note) error {
	err := r.DB.WithContext(ctx).Create(n).Error
	if pkgdb.IsDuplicate(err) {
		return ErrNoteExists
	}
	return err
}

func (r *GormRepo) SaveNote(ctx context.Context, n *models.Note) error {
	err := r.DB.WithContext(ctx).Save(n).Error
	if pkgdb.IsDuplicate(err) {
		return ErrNoteExists
	}
	return err
}

func (r *GormRepo) DeleteNote(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Note{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

type StudentTotals struct {
	NoteCount   int64
	WeightedSum float64
	CoefSum     float64
}

func (r *GormRepo) StudentTotals(ctx context.Context, studentID uint) (StudentTotals, error) {
	var t StudentTotals
	err := r.DB.WithContext(ctx).Model(&models.Note{}).
		Select("COUNT(*) AS note_count, COALESCE(SUM(note * coefficient), 0) AS weighted_sum, COALESCE(SUM(coefficient), 0) AS coef_sum").
		Where("student_id = ?", studentID).
		Scan(&t).Error
	return t, err
}

type CourseTotals struct {
	NoteCount int64
	AvgNote   float64
	MinNote   float64
	MaxNote   float64
}

func (r *GormRepo) CourseTotals(ctx context.Context, code string) (CourseTotals, error) {
	var t CourseTotals
	err := r.DB.WithContext(ctx).Model(&models.Note{}).
		Select("COUNT(*) AS note_count, COALESCE(AVG(note), 0) AS avg_note, COALESCE(MIN(note), 0) AS min_note, COALESCE(MAX(note), 0) AS max_note").
		Where("course_code = ?", code).
		Scan(&t).Error
	return t, err
}
