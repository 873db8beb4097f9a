package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/pkg/events"
	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/services/auth/internal/domain"
	"github.com/Skotchmaster/university/services/auth/internal/models"
	"github.com/Skotchmaster/university/services/auth/internal/repo"
	"github.com/Skotchmaster/university/services/auth/internal/revocation"
)

const testPassword = "ValidPass1!"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), pkgdb.MemoryDSN(uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	require.NoError(t, (&repo.GormRepo{DB: db}).Migrate())
	return db
}

func newService(t *testing.T, db *gorm.DB, reg revocation.Registry) *AuthService {
	t.Helper()
	m, err := tokens.NewManager([]byte("test-jwt-secret"), "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return &AuthService{
		Repo:    &repo.GormRepo{DB: db},
		Tokens:  m,
		Revoked: reg,
		Events:  events.Nop{},
	}
}

func newTestAuthService(t *testing.T) *AuthService {
	return newService(t, newTestDB(t), revocation.NewMemory())
}

func register(t *testing.T, svc *AuthService, email, role string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: testPassword,
		FullName: "Test User",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		in       RegisterInput
		wantMsg  string
		wantKind error
	}{
		{name: "bad email", in: RegisterInput{Email: "nope", Password: testPassword}, wantMsg: "Invalid email format", wantKind: domain.ErrInvalidEmail},
		{name: "short password", in: RegisterInput{Email: "a@b.co", Password: "short1!"}, wantMsg: "Password must be at least 8 characters", wantKind: domain.ErrPasswordTooShort},
		{name: "no uppercase", in: RegisterInput{Email: "a@b.co", Password: "alllowercase1!"}, wantMsg: "Password must contain at least one uppercase letter", wantKind: domain.ErrPasswordNoUpper},
		{name: "unknown role", in: RegisterInput{Email: "a@b.co", Password: testPassword, Role: "ROOT"}, wantMsg: "Invalid role", wantKind: domain.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.Register(ctx, tt.in)
			require.Error(t, err)
			assert.Nil(t, u)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAuthService_Register_DefaultsRoleAndHashes(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	u := register(t, svc, "new@university.com", "")

	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, testPassword, u.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "dup@university.com", "ENSEIGNANT")

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@university.com", Password: "Another1!pass"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Email already registered", err.Error())

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.Login(ctx, "dup@university.com", testPassword)
	require.NoError(t, err)
	_, err = svc.Login(ctx, "dup@university.com", "Another1!pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_ValidateRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	u := register(t, svc, "teacher1@university.com", "ENSEIGNANT")

	res, err := svc.Login(ctx, "teacher1@university.com", testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	assert.True(t, res.RefreshExp.After(res.AccessExp))

	claims, err := svc.Validate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(u.ID), claims.Subject)
	assert.Equal(t, "ENSEIGNANT", claims.Role)

	me, err := svc.Me(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	u := register(t, svc, "s@university.com", "")

	_, err := svc.Login(ctx, "s@university.com", "WrongPass1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@university.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)
	_, err = svc.Login(ctx, "s@university.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ExpiredAccessRejected(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "exp@university.com", "")

	start := time.Now()
	svc.Tokens.Now = func() time.Time { return start }
	res, err := svc.Login(ctx, "exp@university.com", testPassword)
	require.NoError(t, err)

	svc.Tokens.Now = func() time.Time { return start.Add(15*time.Minute + time.Second) }
	_, err = svc.Validate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrExpired)

	fresh, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, fresh.Value)
	require.NoError(t, err)
}

func TestAuthService_TokenTypesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "types@university.com", "")
	res, err := svc.Login(ctx, "types@university.com", testPassword)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrWrongType)

	_, err = svc.Validate(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, tokens.ErrWrongType)

	_, err = svc.Me(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestAuthService_Refresh_DoesNotRotate(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	u := register(t, svc, "r@university.com", "ADMIN")
	res, err := svc.Login(ctx, "r@university.com", testPassword)
	require.NoError(t, err)

	first, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	second, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, second.Value)

	claims, err := svc.Validate(ctx, second.Value)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(u.ID), claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestAuthService_LogOut_Revokes(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "out@university.com", "")
	res, err := svc.Login(ctx, "out@university.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, res.AccessToken))
	for i := 0; i < 3; i++ {
		_, err = svc.Validate(ctx, res.AccessToken)
		assert.ErrorIs(t, err, tokens.ErrRevoked)
	}

	// the refresh token of the same session is still usable
	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, res.RefreshToken))
	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, tokens.ErrRevoked)
	assert.Equal(t, "revoked", tokens.Reason(err))
}

func TestAuthService_LogOut_UnparsableTokenStillRevoked(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.LogOut(ctx, ""))
	require.NoError(t, svc.LogOut(ctx, "not-a-valid-jwt"))

	_, err := svc.Verify(ctx, "not-a-valid-jwt", "")
	assert.ErrorIs(t, err, tokens.ErrRevoked)
}

func TestAuthService_ConcurrentLogouts(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	const n = 40
	toks := make([]string, n)
	for i := range toks {
		issued, err := svc.Tokens.Issue(fmt.Sprint(i+1), "ETUDIANT", tokens.TypeAccess)
		require.NoError(t, err)
		toks[i] = issued.Value
	}

	var wg sync.WaitGroup
	for _, tok := range toks {
		wg.Add(1)
		go func(tok string) {
			defer wg.Done()
			assert.NoError(t, svc.LogOut(ctx, tok))
		}(tok)
	}
	wg.Wait()

	for _, tok := range toks {
		_, err := svc.Validate(ctx, tok)
		assert.ErrorIs(t, err, tokens.ErrRevoked)
	}
}

func TestAuthService_SharedRevocationAcrossInstances(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	a := newService(t, db, revocation.NewGorm(db))
	b := newService(t, db, revocation.NewGorm(db))
	ctx := context.Background()

	register(t, a, "shared@university.com", "")
	res, err := b.Login(ctx, "shared@university.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, a.LogOut(ctx, res.AccessToken))
	_, err = b.Validate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrRevoked)
}

func TestAuthService_Me_UserGone(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	u := register(t, svc, "gone@university.com", "")
	res, err := svc.Login(ctx, "gone@university.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Delete(&models.User{}, u.ID).Error)
	_, err = svc.Me(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", err.Error())
}

func TestAuthService_SeedDefaultUsers(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaultUsers(ctx, "admin123"))
	require.NoError(t, svc.SeedDefaultUsers(ctx, "other-password"))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	res, err := svc.Login(ctx, "admin@university.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
}
