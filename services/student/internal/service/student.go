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
	"github.com/Skotchmaster/university/services/student/internal/models"
	"github.com/Skotchmaster/university/services/student/internal/repo"
)

const TopicStudentEvents = "student_events"

const (
	msgNotFound       = "Student not found"
	msgEmailTaken     = "Email already exists"
	msgMatriculeTaken = "Matricule already exists"
)

var statuts = []string{models.StatutActif, models.StatutSuspendu, models.StatutDiplome}

// Indexer mirrors students into a full-text index.
type Indexer interface {
	Upsert(ctx context.Context, s *models.Student) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, offset, limit int) ([]uint, error)
}

type StudentService struct {
	Repo   *repo.GormRepo
	Index  Indexer
	Events events.Publisher
}

type StudentInput struct {
	Fullname         string
	Nom              *string
	Prenom           *string
	Email            string
	Age              int
	Matricule        string
	DateNaissance    *string
	Telephone        *string
	Adresse          *string
	Filiere          *string
	Niveau           *string
	AnneeInscription *int
	Photo            *string
	Statut           string
}

type ProfileInput struct {
	Email     *string
	Telephone *string
	Adresse   *string
}

func (s *StudentService) emit(ctx context.Context, typ string, st *models.Student) {
	events.Emit(ctx, s.Events, TopicStudentEvents, events.Event{
		Type:       typ,
		Key:        strconv.FormatUint(uint64(st.ID), 10),
		OccurredAt: time.Now().UTC(),
		Data:       map[string]any{"matricule": st.Matricule, "email": st.Email},
	})
}

// syncIndex pushes st to the search index. Failures are logged only, the
// database stays the source of truth.
func (s *StudentService) syncIndex(ctx context.Context, st *models.Student, removed bool) {
	if s.Index == nil {
		return
	}
	var err error
	if removed {
		err = s.Index.Remove(ctx, st.ID)
	} else {
		err = s.Index.Upsert(ctx, st)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_sync_failed", "student_id", st.ID, "removed", removed, "error", err)
	}
}

func normalizeStatut(v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return models.StatutActif, nil
	}
	for _, s := range statuts {
		if v == s {
			return v, nil
		}
	}
	return "", newError(ErrValidation, "statut must be one of "+strings.Join(statuts, ", "), nil)
}

// checkUnique refuses an email or matricule used by another active student.
func (s *StudentService) checkUnique(ctx context.Context, email, matricule string, selfID uint) error {
	if email != "" {
		taken, err := s.Repo.Taken(ctx, "email", email, selfID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return newError(ErrConflict, msgEmailTaken, repo.ErrStudentExists)
		}
	}
	if matricule != "" {
		taken, err := s.Repo.Taken(ctx, "matricule", matricule, selfID)
		if err != nil {
			return fmt.Errorf("check matricule: %w", err)
		}
		if taken {
			return newError(ErrConflict, msgMatriculeTaken, repo.ErrStudentExists)
		}
	}
	return nil
}

// lostRace resolves a unique-index violation that slipped past checkUnique.
func (s *StudentService) lostRace(ctx context.Context, st *models.Student, selfID uint) error {
	if err := s.checkUnique(ctx, st.Email, st.Matricule, selfID); err != nil {
		return err
	}
	return newError(ErrConflict, msgEmailTaken, repo.ErrStudentExists)
}

func (in StudentInput) fill(st *models.Student) error {
	statut, err := normalizeStatut(in.Statut)
	if err != nil {
		return err
	}
	st.Fullname = strings.TrimSpace(in.Fullname)
	st.Nom = in.Nom
	st.Prenom = in.Prenom
	st.Email = strings.TrimSpace(in.Email)
	st.Age = in.Age
	st.Matricule = strings.TrimSpace(in.Matricule)
	st.DateNaissance = in.DateNaissance
	st.Telephone = in.Telephone
	st.Adresse = in.Adresse
	st.Filiere = in.Filiere
	st.Niveau = in.Niveau
	st.AnneeInscription = in.AnneeInscription
	st.Photo = in.Photo
	st.Statut = statut

	switch {
	case st.Fullname == "":
		return newError(ErrValidation, "fullname is required", nil)
	case st.Email == "":
		return newError(ErrValidation, "email is required", nil)
	case st.Matricule == "":
		return newError(ErrValidation, "matricule is required", nil)
	case st.Age < 0:
		return newError(ErrValidation, "age must be >= 0", nil)
	}
	return nil
}

func (s *StudentService) CreateStudent(ctx context.Context, in StudentInput) (*models.Student, error) {
	l := logging.FromContext(ctx).With("svc", "student.create")

	st := &models.Student{}
	if err := in.fill(st); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, st.Email, st.Matricule, 0); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateStudent(ctx, st); err != nil {
		if errors.Is(err, repo.ErrStudentExists) {
			return nil, s.lostRace(ctx, st, 0)
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	l.Info("student_created", "student_id", st.ID, "matricule", st.Matricule)
	s.syncIndex(ctx, st, false)
	s.emit(ctx, "student_created", st)
	return st, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	st, err := s.Repo.GetStudent(ctx, id)
	if errors.Is(err, repo.ErrStudentNotFound) {
		return nil, newError(ErrNotFound, msgNotFound, err)
	}
	return st, err
}

func (s *StudentService) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	st, err := s.Repo.GetStudentByEmail(ctx, email)
	if errors.Is(err, repo.ErrStudentNotFound) {
		return nil, newError(ErrNotFound, msgNotFound, err)
	}
	return st, err
}

func (s *StudentService) ListStudents(ctx context.Context, f repo.StudentFilter, offset, limit int) ([]models.Student, error) {
	return s.Repo.ListStudents(ctx, f, offset, limit)
}

// SearchStudents asks the search index first and falls back to a database
// substring match when no index is configured or the index fails.
func (s *StudentService) SearchStudents(ctx context.Context, q string, offset, limit int) ([]models.Student, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newError(ErrValidation, "q is required", nil)
	}

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return s.Repo.StudentsByIDs(ctx, ids)
		}
		logging.FromContext(ctx).Warn("search_index_unavailable", "error", err)
	}
	return s.Repo.SearchStudents(ctx, q, offset, limit)
}

// ReplaceStudent overwrites every field of the student.
func (s *StudentService) ReplaceStudent(ctx context.Context, id uint, in StudentInput) (*models.Student, error) {
	st, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.fill(st); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, st.Email, st.Matricule, st.ID); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveStudent(ctx, st); err != nil {
		if errors.Is(err, repo.ErrStudentExists) {
			return nil, s.lostRace(ctx, st, st.ID)
		}
		return nil, fmt.Errorf("save student: %w", err)
	}

	s.syncIndex(ctx, st, false)
	s.emit(ctx, "student_updated", st)
	return st, nil
}

func (s *StudentService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.Student, error) {
	st, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, newError(ErrValidation, "email must not be empty", nil)
		}
		if err := s.checkUnique(ctx, email, "", st.ID); err != nil {
			return nil, err
		}
		st.Email = email
	}
	if in.Telephone != nil {
		st.Telephone = in.Telephone
	}
	if in.Adresse != nil {
		st.Adresse = in.Adresse
	}

	if err := s.Repo.SaveStudent(ctx, st); err != nil {
		if errors.Is(err, repo.ErrStudentExists) {
			return nil, s.lostRace(ctx, st, st.ID)
		}
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.syncIndex(ctx, st, false)
	s.emit(ctx, "student_profile_updated", st)
	return st, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id uint) error {
	st, err := s.GetStudent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.SoftDeleteStudent(ctx, id); err != nil {
		if errors.Is(err, repo.ErrStudentNotFound) {
			return newError(ErrNotFound, msgNotFound, err)
		}
		return fmt.Errorf("delete student: %w", err)
	}

	logging.FromContext(ctx).Info("student_deleted", "student_id", id)
	s.syncIndex(ctx, st, true)
	s.emit(ctx, "student_deleted", st)
	return nil
}

// Reindex pushes every active student to the search index.
func (s *StudentService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	all, err := s.Repo.AllStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("load students: %w", err)
	}
	for i := range all {
		if err := s.Index.Upsert(ctx, &all[i]); err != nil {
			return i, err
		}
	}
	return len(all), nil
}
