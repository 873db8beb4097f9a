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
	"github.com/Skotchmaster/university/services/note/internal/domain"
	"github.com/Skotchmaster/university/services/note/internal/models"
	"github.com/Skotchmaster/university/services/note/internal/repo"
)

const TopicNoteEvents = "note_events"

type NoteService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type NoteInput struct {
	StudentID   *uint
	CourseCode  *string
	Note        *float64
	Coefficient *float64
	TypeExam    *string
	Semester    *string
	DateExam    *string
	Comment     *string
}

type StudentAverage struct {
	StudentID        uint    `json:"student_id"`
	Average          float64 `json:"average"`
	TotalNotes       int64   `json:"total_notes"`
	TotalCoefficient float64 `json:"total_coefficient"`
}

type CourseStats struct {
	CourseCode string  `json:"course_code"`
	Average    float64 `json:"average"`
	TotalNotes int64   `json:"total_notes"`
	MinNote    float64 `json:"min_note"`
	MaxNote    float64 `json:"max_note"`
}

func (s *NoteService) emit(ctx context.Context, typ string, n *models.Note) {
	events.Emit(ctx, s.Events, TopicNoteEvents, events.Event{
		Type:       typ,
		Key:        strconv.FormatUint(uint64(n.StudentID), 10),
		OccurredAt: time.Now().UTC(),
		Data: map[string]any{
			"note_id":     n.ID,
			"course_code": n.CourseCode,
			"type_exam":   n.TypeExam,
			"note":        n.Note,
		},
	})
}

func invalid(err error) error {
	return newError(ErrValidation, err.Error(), err)
}

func duplicateNote(n *models.Note) error {
	return newError(ErrConflict,
		fmt.Sprintf("Note already exists for student %d in course %s (%s)", n.StudentID, n.CourseCode, n.TypeExam),
		repo.ErrNoteExists)
}

// apply copies the non-nil fields of in onto n, validating each one.
func apply(n *models.Note, in NoteInput) error {
	if in.StudentID != nil {
		n.StudentID = *in.StudentID
	}
	if in.CourseCode != nil {
		n.CourseCode = strings.TrimSpace(*in.CourseCode)
	}
	if in.Note != nil {
		if err := domain.CheckNote(*in.Note); err != nil {
			return invalid(err)
		}
		n.Note = *in.Note
	}
	if in.Coefficient != nil {
		if err := domain.CheckCoefficient(*in.Coefficient); err != nil {
			return invalid(err)
		}
		n.Coefficient = *in.Coefficient
	}
	if in.TypeExam != nil {
		t, err := domain.NormalizeTypeExam(*in.TypeExam)
		if err != nil {
			return invalid(err)
		}
		n.TypeExam = t
	}
	if in.Semester != nil {
		n.Semester = in.Semester
	}
	if in.DateExam != nil {
		if err := domain.CheckDate(*in.DateExam); err != nil {
			return invalid(err)
		}
		n.DateExam = in.DateExam
	}
	if in.Comment != nil {
		n.Comment = in.Comment
	}
	return nil
}

func (s *NoteService) CreateNote(ctx context.Context, in NoteInput) (*models.Note, error) {
	l := logging.FromContext(ctx).With("svc", "note.create")

	if in.StudentID == nil || *in.StudentID == 0 {
		return nil, newError(ErrValidation, "student_id is required", nil)
	}
	if in.CourseCode == nil || strings.TrimSpace(*in.CourseCode) == "" {
		return nil, newError(ErrValidation, "course_code is required", nil)
	}
	if in.Note == nil {
		return nil, newError(ErrValidation, "note is required", nil)
	}

	n := &models.Note{
		Coefficient: domain.DefaultCoefficient,
		TypeExam:    domain.DefaultTypeExam,
	}
	if err := apply(n, in); err != nil {
		return nil, err
	}

	taken, err := s.Repo.ExamTaken(ctx, n.StudentID, n.CourseCode, n.TypeExam, 0)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if taken {
		return nil, duplicateNote(n)
	}

	if err := s.Repo.CreateNote(ctx, n); err != nil {
		if errors.Is(err, repo.ErrNoteExists) {
			return nil, duplicateNote(n)
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	l.Info("note_created", "note_id", n.ID, "student_id", n.StudentID, "course_code", n.CourseCode)
	s.emit(ctx, "note_created", n)
	return n, nil
}

func (s *NoteService) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	n, err := s.Repo.GetNote(ctx, id)
	if errors.Is(err, repo.ErrNoteNotFound) {
		return nil, newError(ErrNotFound, "Note not found", err)
	}
	return n, err
}

// UpdateNote applies a partial update. Student and course are fixed once a
// note exists.
func (s *NoteService) UpdateNote(ctx context.Context, id uint, in NoteInput) (*models.Note, error) {
	n, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	in.StudentID, in.CourseCode = nil, nil
	prevType := n.TypeExam
	if err := apply(n, in); err != nil {
		return nil, err
	}

	if n.TypeExam != prevType {
		taken, err := s.Repo.ExamTaken(ctx, n.StudentID, n.CourseCode, n.TypeExam, n.ID)
		if err != nil {
			return nil, fmt.Errorf("check duplicate: %w", err)
		}
		if taken {
			return nil, duplicateNote(n)
		}
	}

	if err := s.Repo.SaveNote(ctx, n); err != nil {
		if errors.Is(err, repo.ErrNoteExists) {
			return nil, duplicateNote(n)
		}
		return nil, fmt.Errorf("save note: %w", err)
	}

	s.emit(ctx, "note_updated", n)
	return n, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, id uint) error {
	n, err := s.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNoteNotFound) {
			return newError(ErrNotFound, "Note not found", err)
		}
		return fmt.Errorf("delete note: %w", err)
	}
	s.emit(ctx, "note_deleted", n)
	return nil
}

func (s *NoteService) ListNotes(ctx context.Context, f repo.NoteFilter, offset, limit int) ([]models.Note, error) {
	if f.TypeExam != "" {
		f.TypeExam = strings.ToUpper(strings.TrimSpace(f.TypeExam))
	}
	return s.Repo.ListNotes(ctx, f, offset, limit)
}

func (s *NoteService) StudentNotes(ctx context.Context, studentID uint) ([]models.Note, error) {
	return s.Repo.NotesByStudent(ctx, studentID)
}

func (s *NoteService) CourseNotes(ctx context.Context, code string) ([]models.Note, error) {
	return s.Repo.NotesByCourse(ctx, code)
}

// StudentAverage is the coefficient-weighted mean of every note of the
// student.
func (s *NoteService) StudentAverage(ctx context.Context, studentID uint) (*StudentAverage, error) {
	t, err := s.Repo.StudentTotals(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("student totals: %w", err)
	}
	if t.NoteCount == 0 {
		return nil, newError(ErrNotFound, "No notes found for this student", nil)
	}

	var avg float64
	if t.CoefSum > 0 {
		avg = domain.Round2(t.WeightedSum / t.CoefSum)
	}
	return &StudentAverage{
		StudentID:        studentID,
		Average:          avg,
		TotalNotes:       t.NoteCount,
		TotalCoefficient: t.CoefSum,
	}, nil
}

func (s *NoteService) CourseStats(ctx context.Context, code string) (*CourseStats, error) {
	t, err := s.Repo.CourseTotals(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("course totals: %w", err)
	}
	if t.NoteCount == 0 {
		return nil, newError(ErrNotFound, "No notes found for this course", nil)
	}
	return &CourseStats{
		CourseCode: code,
		Average:    domain.Round2(t.AvgNote),
		TotalNotes: t.NoteCount,
		MinNote:    t.MinNote,
		MaxNote:    t.MaxNote,
	}, nil
}
