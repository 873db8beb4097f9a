package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/university/pkg/events"
	pkg_hash "github.com/Skotchmaster/university/pkg/hash"
	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/services/auth/internal/domain"
	"github.com/Skotchmaster/university/services/auth/internal/models"
	"github.com/Skotchmaster/university/services/auth/internal/repo"
	"github.com/Skotchmaster/university/services/auth/internal/revocation"
)

const TopicUserEvents = "user_events"

type AuthService struct {
	Repo    *repo.GormRepo
	Tokens  *tokens.Manager
	Revoked revocation.Registry
	Events  events.Publisher
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	Role         string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.TrimSpace(in.Email)
	if !domain.ValidEmail(email) {
		return nil, newError(ErrValidation, domain.ErrInvalidEmail.Error(), domain.ErrInvalidEmail)
	}
	role, err := domain.NormalizeRole(in.Role)
	if err != nil {
		return nil, newError(ErrValidation, err.Error(), err)
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, newError(ErrConflict, "Email already registered", repo.ErrUserAlreadyExist)
	}

	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, newError(ErrValidation, err.Error(), err)
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, newError(ErrConflict, "Email already registered", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	l.Info("user_registered", "user_id", user.ID, "role", user.Role)
	events.Emit(ctx, s.Events, TopicUserEvents, events.Event{
		Type: "user_registered",
		Key:  strconv.FormatUint(uint64(user.ID), 10),
		Data: map[string]any{"email": user.Email, "role": user.Role},
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		l.Warn("login_failed", "reason", "inactive user", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	sub := strconv.FormatUint(uint64(user.ID), 10)
	access, err := s.Tokens.Issue(sub, user.Role, tokens.TypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.Issue(sub, user.Role, tokens.TypeRefresh)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, TopicUserEvents, events.Event{Type: "user_logged_in", Key: sub})
	return &LoginResult{
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
		AccessExp:    access.ExpiresAt,
		RefreshExp:   refresh.ExpiresAt,
		Role:         user.Role,
	}, nil
}

// Verify checks revocation first, then signature, expiry and type. Every
// rejection wraps tokens.ErrInvalidToken; tokens.Reason tells them apart.
func (s *AuthService) Verify(ctx context.Context, token string, expected tokens.Type) (*tokens.Claims, error) {
	revoked, err := s.Revoked.Contains(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, tokens.ErrRevoked
	}
	return s.Tokens.Parse(token, expected)
}

// Refresh issues a new access token for the subject of a valid refresh
// token. The refresh token itself stays usable until it expires or is
// revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Issued, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Verify(ctx, refreshToken, tokens.TypeRefresh)
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			l.Warn("refresh_rejected", "reason", tokens.Reason(err))
		}
		return nil, err
	}

	access, err := s.Tokens.Issue(claims.Subject, claims.Role, tokens.TypeAccess)
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// LogOut revokes token whatever its type or state. Tokens that cannot be
// parsed are kept for the longest lifetime any token can have.
func (s *AuthService) LogOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	exp := s.Tokens.Now().Add(s.Tokens.MaxTTL())
	sub := ""
	if claims, err := s.Tokens.Parse(token, ""); err == nil {
		exp = claims.ExpiresAt.Time
		sub = claims.Subject
	}

	if err := s.Revoked.Add(ctx, token, exp); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	l.Info("token_revoked", "user_id", sub)
	if sub != "" {
		events.Emit(ctx, s.Events, TopicUserEvents, events.Event{Type: "user_logged_out", Key: sub})
	}
	return nil
}

// Validate returns the claims of a live access token.
func (s *AuthService) Validate(ctx context.Context, accessToken string) (*tokens.Claims, error) {
	return s.Verify(ctx, accessToken, tokens.TypeAccess)
}

func (s *AuthService) Me(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.Verify(ctx, accessToken, tokens.TypeAccess)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, tokens.ErrMalformed
	}
	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "User not found", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}
