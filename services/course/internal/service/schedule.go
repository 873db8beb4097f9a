package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/domain"
	"github.com/Skotchmaster/university/services/course/internal/models"
	"github.com/Skotchmaster/university/services/course/internal/repo"
)

type ScheduleInput struct {
	CourseID  uint
	DayOfWeek string
	StartTime string
	EndTime   string
	Room      *string
}

// CreateSchedule books a slot for a course. A slot without a room never
// conflicts; otherwise it must not overlap another slot in the same room on
// the same day.
func (s *CourseService) CreateSchedule(ctx context.Context, in ScheduleInput) (*models.Schedule, error) {
	l := logging.FromContext(ctx).With("svc", "course.create_schedule")

	day := strings.TrimSpace(in.DayOfWeek)
	if day == "" {
		return nil, newError(ErrValidation, "day_of_week is required", nil)
	}
	slot, err := domain.NewSlot(in.StartTime, in.EndTime)
	if err != nil {
		return nil, newError(ErrValidation, err.Error(), err)
	}

	if _, err := s.GetCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}

	var room *string
	if in.Room != nil && strings.TrimSpace(*in.Room) != "" {
		r := strings.TrimSpace(*in.Room)
		room = &r
	}

	sched := &models.Schedule{
		CourseID:  in.CourseID,
		DayOfWeek: day,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Room:      room,
	}

	err = s.Repo.CreateSchedule(ctx, sched, func(sameDay []models.Schedule) error {
		if room == nil {
			return nil
		}
		for _, other := range sameDay {
			if other.Room == nil || !domain.SameKey(*other.Room, *room) {
				continue
			}
			otherSlot, err := domain.NewSlot(other.StartTime, other.EndTime)
			if err != nil {
				l.Warn("stored_schedule_unreadable", "schedule_id", other.ID, "error", err)
				continue
			}
			if slot.Overlaps(otherSlot) {
				return newError(ErrConflict, "Schedule conflict with another course in room "+*room, nil)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	l.Info("schedule_created", "schedule_id", sched.ID, "course_id", sched.CourseID)
	s.emit(ctx, "schedule_created", sched.CourseID, map[string]any{
		"schedule_id": sched.ID,
		"day_of_week": sched.DayOfWeek,
		"start_time":  sched.StartTime,
		"end_time":    sched.EndTime,
	})
	return sched, nil
}

func (s *CourseService) CourseSchedules(ctx context.Context, courseID uint) ([]models.Schedule, error) {
	return s.Repo.SchedulesByCourse(ctx, courseID)
}

func (s *CourseService) DeleteSchedule(ctx context.Context, id uint) error {
	sched, err := s.Repo.GetSchedule(ctx, id)
	if err == nil {
		err = s.Repo.DeleteSchedule(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repo.ErrScheduleNotFound) {
			return newError(ErrNotFound, "Schedule not found", err)
		}
		return fmt.Errorf("delete schedule: %w", err)
	}
	s.emit(ctx, "schedule_deleted", sched.CourseID, map[string]any{"schedule_id": id})
	return nil
}
