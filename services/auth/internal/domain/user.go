package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Skotchmaster/university/services/auth/internal/models"
)

var (
	ErrInvalidEmail = errors.New("Invalid email format")
	ErrInvalidRole  = errors.New("Invalid role")
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// NormalizeRole upper-cases role and defaults an empty one to ETUDIANT.
func NormalizeRole(role string) (string, error) {
	r := strings.ToUpper(strings.TrimSpace(role))
	switch r {
	case "":
		return models.RoleStudent, nil
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		return r, nil
	}
	return "", ErrInvalidRole
}
