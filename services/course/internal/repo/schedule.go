package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/university/services/course/internal/models"
)

// CreateSchedule inserts s after check has accepted every schedule already
// booked on the same day. Both run in one transaction.
func (r *GormRepo) CreateSchedule(ctx context.Context, s *models.Schedule, check func(sameDay []models.Schedule) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sameDay []models.Schedule
		if err := tx.Where("LOWER(day_of_week) = LOWER(?)", s.DayOfWeek).Find(&sameDay).Error; err != nil {
			return err
		}
		if err := check(sameDay); err != nil {
			return err
		}
		return tx.Create(s).Error
	})
}

func (r *GormRepo) SchedulesByCourse(ctx context.Context, courseID uint) ([]models.Schedule, error) {
	out := make([]models.Schedule, 0)
	err := r.DB.WithContext(ctx).Where("course_id = ?", courseID).
		Order("id ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) GetSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	return &s, nil
}

func (r *GormRepo) DeleteSchedule(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Schedule{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
