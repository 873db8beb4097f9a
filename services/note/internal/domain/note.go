package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	MinNote = 0
	MaxNote = 20

	DefaultTypeExam    = "EXAMEN"
	DefaultCoefficient = 1.0

	DateLayout = "2006-01-02"
)

var ExamTypes = []string{"EXAMEN", "CC", "TP", "RATTRAPAGE"}

var (
	ErrNoteRange   = fmt.Errorf("note must be between %d and %d", MinNote, MaxNote)
	ErrCoefficient = errors.New("coefficient must be greater than 0")
	ErrTypeExam    = fmt.Errorf("type_exam must be one of %s", strings.Join(ExamTypes, ", "))
	ErrDateExam    = errors.New("date_exam must be YYYY-MM-DD")
)

func CheckNote(v float64) error {
	if math.IsNaN(v) || v < MinNote || v > MaxNote {
		return ErrNoteRange
	}
	return nil
}

func CheckCoefficient(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrCoefficient
	}
	return nil
}

// NormalizeTypeExam upper-cases t and defaults it to EXAMEN.
func NormalizeTypeExam(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return DefaultTypeExam, nil
	}
	if !slices.Contains(ExamTypes, t) {
		return "", ErrTypeExam
	}
	return t, nil
}

func CheckDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrDateExam
	}
	return nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
