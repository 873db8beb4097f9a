package service

import (
	"context"
	"fmt"

	pkg_hash "github.com/Skotchmaster/university/pkg/hash"
	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/auth/internal/models"
)

type seedUser struct {
	Email    string
	FullName string
	Role     string
}

var defaultUsers = []seedUser{
	{Email: "admin@university.com", FullName: "Administrator", Role: models.RoleAdmin},
	{Email: "teacher@university.com", FullName: "Teacher", Role: models.RoleTeacher},
	{Email: "student@university.com", FullName: "Student", Role: models.RoleStudent},
}

// SeedDefaultUsers makes sure one account per role exists. Existing accounts
// are left untouched. The password policy is not applied here.
func (s *AuthService) SeedDefaultUsers(ctx context.Context, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.seed")

	hash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, su := range defaultUsers {
		u := &models.User{
			Email:        su.Email,
			PasswordHash: hash,
			FullName:     su.FullName,
			Role:         su.Role,
			IsActive:     true,
		}
		created, err := s.Repo.CreateUserIfNotExists(ctx, u)
		if err != nil {
			return fmt.Errorf("seed %s: %w", su.Email, err)
		}
		if created {
			l.Info("user_seeded", "email", su.Email, "role", su.Role)
		}
	}
	return nil
}
