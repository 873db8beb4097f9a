package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/university/services/student/internal/models"
	"github.com/Skotchmaster/university/services/student/internal/repo"
)

type HistoryInput struct {
	Annee   *int
	Details *string
}

func (s *StudentService) ListHistory(ctx context.Context, studentID uint) ([]models.AcademicHistory, error) {
	if _, err := s.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.Repo.ListHistory(ctx, studentID)
}

func (s *StudentService) AddHistory(ctx context.Context, studentID uint, in HistoryInput) (*models.AcademicHistory, error) {
	if _, err := s.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	h := &models.AcademicHistory{StudentID: studentID, Annee: in.Annee, Details: in.Details}
	if err := s.Repo.CreateHistory(ctx, h); err != nil {
		return nil, fmt.Errorf("create history: %w", err)
	}
	return h, nil
}

func (s *StudentService) DeleteHistory(ctx context.Context, studentID, historyID uint) error {
	if _, err := s.GetStudent(ctx, studentID); err != nil {
		return err
	}
	if err := s.Repo.DeleteHistory(ctx, studentID, historyID); err != nil {
		if errors.Is(err, repo.ErrHistoryNotFound) {
			return newError(ErrNotFound, "History record not found", err)
		}
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
