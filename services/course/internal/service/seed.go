package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/models"
)

func strp(s string) *string { return &s }
func uintp(u uint) *uint    { return &u }

func sampleCourses() []models.Course {
	return []models.Course{
		{Code: "CS101", Name: "Mathématiques", Description: strp("Analyse 1"), Credits: 6, Hours: 60,
			Filiere: strp("SCI"), Niveau: strp("L1"), EnseignantID: uintp(1001), Salle: strp("A101")},
		{Code: "CS201", Name: "Programmation Java", Description: strp("POO et Collections"), Credits: 5, Hours: 45,
			Filiere: strp("INFO"), Niveau: strp("L2"), EnseignantID: uintp(1002), Salle: strp("B202")},
		{Code: "CS301", Name: "Bases de Données", Description: strp("SQL et modélisation"), Credits: 5, Hours: 45,
			Filiere: strp("INFO"), Niveau: strp("L3"), EnseignantID: uintp(1003), Salle: strp("C303")},
		{Code: "SCI101", Name: "Physique Générale", Description: strp("Mécanique et thermodynamique"), Credits: 6, Hours: 60,
			Filiere: strp("SCI"), Niveau: strp("L1"), EnseignantID: uintp(1004), Salle: strp("D101")},
	}
}

// SeedSampleCourses inserts the sample catalogue when no course exists yet.
func (s *CourseService) SeedSampleCourses(ctx context.Context) error {
	n, err := s.Repo.CountCourses(ctx)
	if err != nil {
		return fmt.Errorf("count courses: %w", err)
	}
	if n > 0 {
		return nil
	}
	courses := sampleCourses()
	if err := s.Repo.CreateCourses(ctx, courses); err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	logging.FromContext(ctx).Info("courses_seeded", "count", len(courses))
	return nil
}
