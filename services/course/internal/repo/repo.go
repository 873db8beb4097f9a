package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/university/services/course/internal/models"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCodeTaken          = errors.New("course code taken")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrScheduleNotFound   = errors.New("schedule not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(&models.Course{}, &models.Enrollment{}, &models.Schedule{})
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
