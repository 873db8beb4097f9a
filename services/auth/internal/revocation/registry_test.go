package revocation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/services/auth/internal/models"
)

func newGormRegistry(t *testing.T) *Gorm {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), pkgdb.MemoryDSN(uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RevokedToken{}))
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return NewGorm(db)
}

func registries(t *testing.T) map[string]Registry {
	return map[string]Registry{
		"memory": NewMemory(),
		"gorm":   newGormRegistry(t),
	}
}

func TestRegistry_AddContains(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			exp := time.Now().Add(time.Hour)

			ok, err := reg.Contains(ctx, "tok-a")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, reg.Add(ctx, "tok-a", exp))
			require.NoError(t, reg.Add(ctx, "tok-a", exp))

			ok, err = reg.Contains(ctx, "tok-a")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = reg.Contains(ctx, "tok-a ")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRegistry_Sweep(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, reg.Add(ctx, "old", now.Add(-time.Minute)))
			require.NoError(t, reg.Add(ctx, "live", now.Add(time.Hour)))

			n, err := reg.Sweep(ctx, now)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			ok, err := reg.Contains(ctx, "live")
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = reg.Contains(ctx, "old")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRegistry_ConcurrentAdds(t *testing.T) {
	const n = 50
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			exp := time.Now().Add(time.Hour)

			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, reg.Add(ctx, fmt.Sprintf("token-%d", i), exp))
				}(i)
			}
			wg.Wait()

			for i := 0; i < n; i++ {
				ok, err := reg.Contains(ctx, fmt.Sprintf("token-%d", i))
				require.NoError(t, err)
				assert.True(t, ok, "token-%d", i)
			}
		})
	}
}

func TestMemory_AddKeepsLatestExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, m.Add(ctx, "t", now.Add(time.Hour)))
	require.NoError(t, m.Add(ctx, "t", now.Add(-time.Hour)))

	n, err := m.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, m.Len())
}

func TestGorm_StoresHashOnly(t *testing.T) {
	g := newGormRegistry(t)
	ctx := context.Background()
	require.NoError(t, g.Add(ctx, "raw-token-value", time.Now().Add(time.Hour)))

	var row models.RevokedToken
	require.NoError(t, g.DB.First(&row).Error)
	assert.Equal(t, HashToken("raw-token-value"), row.TokenHash)
	assert.Len(t, row.TokenHash, 64)
}

func TestSweeper(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := StartSweeper(NewMemory(), "not a cron spec", l)
	require.Error(t, err)

	m := NewMemory()
	c, err := StartSweeper(m, "@every 1h", l)
	require.NoError(t, err)
	c.Stop()

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, m.Add(ctx, "gone", now.Add(-time.Second)))
	assert.EqualValues(t, 1, sweepOnce(ctx, m, now, l))
	assert.Zero(t, m.Len())
}
