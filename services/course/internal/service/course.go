package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/university/pkg/events"
	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/models"
	"github.com/Skotchmaster/university/services/course/internal/repo"
)

const (
	TopicCourseEvents = "course_events"

	DefaultCredits = 3
	DefaultHours   = 30
)

type CourseService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type CourseInput struct {
	Code         *string
	Name         *string
	Description  *string
	Credits      *int
	Hours        *int
	Filiere      *string
	Niveau       *string
	EnseignantID *uint
	Salle        *string
}

func (s *CourseService) emit(ctx context.Context, typ string, id uint, data map[string]any) {
	events.Emit(ctx, s.Events, TopicCourseEvents, events.Event{
		Type:       typ,
		Key:        strconv.FormatUint(uint64(id), 10),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
}

func (s *CourseService) ListCourses(ctx context.Context, filiere, niveau string) ([]models.Course, error) {
	return s.Repo.ListCourses(ctx, repo.CourseFilter{Filiere: filiere, Niveau: niveau})
}

func (s *CourseService) SearchCourses(ctx context.Context, f repo.CourseFilter) ([]models.Course, error) {
	f.Fold = true
	return s.Repo.ListCourses(ctx, f)
}

func (s *CourseService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	c, err := s.Repo.GetCourse(ctx, id)
	if errors.Is(err, repo.ErrCourseNotFound) {
		return nil, newError(ErrNotFound, "Course not found", err)
	}
	return c, err
}

func (s *CourseService) CreateCourse(ctx context.Context, in CourseInput) (*models.Course, error) {
	l := logging.FromContext(ctx).With("svc", "course.create")

	code := strings.TrimSpace(deref(in.Code))
	name := strings.TrimSpace(deref(in.Name))
	if code == "" || name == "" {
		return nil, newError(ErrValidation, "code and name are required", nil)
	}

	taken, err := s.Repo.CodeTaken(ctx, code, 0)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if taken {
		return nil, newError(ErrConflict, "Course code already exists", repo.ErrCodeTaken)
	}

	c := &models.Course{
		Code:         code,
		Name:         name,
		Description:  in.Description,
		Credits:      DefaultCredits,
		Hours:        DefaultHours,
		Filiere:      in.Filiere,
		Niveau:       in.Niveau,
		EnseignantID: in.EnseignantID,
		Salle:        in.Salle,
	}
	if in.Credits != nil {
		c.Credits = *in.Credits
	}
	if in.Hours != nil {
		c.Hours = *in.Hours
	}

	if err := s.Repo.CreateCourse(ctx, c); err != nil {
		if errors.Is(err, repo.ErrCodeTaken) {
			return nil, newError(ErrConflict, "Course code already exists", err)
		}
		return nil, fmt.Errorf("create course: %w", err)
	}

	l.Info("course_created", "course_id", c.ID, "code", c.Code)
	s.emit(ctx, "course_created", c.ID, map[string]any{"code": c.Code})
	return c, nil
}

// UpdateCourse applies the non-nil fields of in to the course.
func (s *CourseService) UpdateCourse(ctx context.Context, id uint, in CourseInput) (*models.Course, error) {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, newError(ErrValidation, "code must not be empty", nil)
		}
		if code != c.Code {
			taken, err := s.Repo.CodeTaken(ctx, code, c.ID)
			if err != nil {
				return nil, fmt.Errorf("check code: %w", err)
			}
			if taken {
				return nil, newError(ErrConflict, "Course code already exists", repo.ErrCodeTaken)
			}
		}
		c.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, newError(ErrValidation, "name must not be empty", nil)
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.Credits != nil {
		c.Credits = *in.Credits
	}
	if in.Hours != nil {
		c.Hours = *in.Hours
	}
	if in.Filiere != nil {
		c.Filiere = in.Filiere
	}
	if in.Niveau != nil {
		c.Niveau = in.Niveau
	}
	if in.EnseignantID != nil {
		c.EnseignantID = in.EnseignantID
	}
	if in.Salle != nil {
		c.Salle = in.Salle
	}

	if err := s.Repo.SaveCourse(ctx, c); err != nil {
		if errors.Is(err, repo.ErrCodeTaken) {
			return nil, newError(ErrConflict, "Course code already exists", err)
		}
		return nil, fmt.Errorf("save course: %w", err)
	}

	s.emit(ctx, "course_updated", c.ID, map[string]any{"code": c.Code})
	return c, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, repo.ErrCourseNotFound) {
			return newError(ErrNotFound, "Course not found", err)
		}
		return fmt.Errorf("delete course: %w", err)
	}
	s.emit(ctx, "course_deleted", id, nil)
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
