package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/models"
	"github.com/Skotchmaster/university/services/course/internal/repo"
)

const msgAlreadyEnrolled = "Student already enrolled in this course"

func (s *CourseService) Enroll(ctx context.Context, courseID, studentID uint) (*models.Enrollment, error) {
	l := logging.FromContext(ctx).With("svc", "course.enroll")

	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	enrolled, err := s.Repo.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return nil, newError(ErrConflict, msgAlreadyEnrolled, repo.ErrAlreadyEnrolled)
	}

	e := &models.Enrollment{CourseID: courseID, StudentID: studentID}
	if err := s.Repo.CreateEnrollment(ctx, e); err != nil {
		if errors.Is(err, repo.ErrAlreadyEnrolled) {
			return nil, newError(ErrConflict, msgAlreadyEnrolled, err)
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	l.Info("student_enrolled", "course_id", courseID, "student_id", studentID)
	s.emit(ctx, "student_enrolled", courseID, map[string]any{"student_id": studentID, "enrollment_id": e.ID})
	return e, nil
}

func (s *CourseService) StudentEnrollments(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	return s.Repo.EnrollmentsByStudent(ctx, studentID)
}

func (s *CourseService) CourseEnrollments(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	return s.Repo.EnrollmentsByCourse(ctx, courseID)
}

func (s *CourseService) Unenroll(ctx context.Context, id uint) error {
	e, err := s.Repo.GetEnrollment(ctx, id)
	if err == nil {
		err = s.Repo.DeleteEnrollment(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repo.ErrEnrollmentNotFound) {
			return newError(ErrNotFound, "Enrollment not found", err)
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}
	s.emit(ctx, "student_unenrolled", e.CourseID, map[string]any{"student_id": e.StudentID, "enrollment_id": e.ID})
	return nil
}
