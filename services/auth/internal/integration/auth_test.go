package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/pkg/events"
	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/services/auth/internal/repo"
	"github.com/Skotchmaster/university/services/auth/internal/revocation"
	"github.com/Skotchmaster/university/services/auth/internal/service"
)

type integrationEnv struct {
	db  *gorm.DB
	svc *service.AuthService
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	dsn := os.Getenv("AUTH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUTH_TEST_DATABASE_URL is required for tests")
	}

	db, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate())

	m, err := tokens.NewManager([]byte("test-jwt-secret"), "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	env := &integrationEnv{
		db: db,
		svc: &service.AuthService{
			Repo:    r,
			Tokens:  m,
			Revoked: revocation.NewGorm(db),
			Events:  events.Nop{},
		},
	}

	truncateTables(t, db)
	t.Cleanup(func() {
		truncateTables(t, db)
		_ = pkgdb.Close(db)
	})

	return env
}

func truncateTables(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{"revoked_tokens", "users"}
	quoted := make([]string, len(tables))
	for i, tbl := range tables {
		quoted[i] = pq.QuoteIdentifier(tbl)
	}
	require.NoError(t, db.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))).Error)
}

func uniqueEmail() string {
	return "u_" + uuid.NewString() + "@university.com"
}

func TestAuthService_Register_SuccessAndConflict(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	email := uniqueEmail()

	_, err := env.svc.Register(ctx, service.RegisterInput{Email: email, Password: "Secret123!"})
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, service.RegisterInput{Email: email, Password: "Secret123!"})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAuthService_LogOut_PersistsAcrossRegistries(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	email := uniqueEmail()

	_, err := env.svc.Register(ctx, service.RegisterInput{Email: email, Password: "Secret123!"})
	require.NoError(t, err)
	res, err := env.svc.Login(ctx, email, "Secret123!")
	require.NoError(t, err)

	require.NoError(t, env.svc.LogOut(ctx, res.RefreshToken))

	other := revocation.NewGorm(env.db)
	ok, err := other.Contains(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, tokens.ErrRevoked)
}
