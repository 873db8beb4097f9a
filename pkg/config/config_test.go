package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	t.Setenv("CFG_TEST_BAD_INT", "x")
	t.Setenv("CFG_TEST_BOOL", "false")

	assert.Equal(t, 42, EnvIntDefault("CFG_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("CFG_TEST_BAD_INT", 1))
	assert.Equal(t, 7, EnvIntDefault("CFG_TEST_UNSET", 7))
	assert.False(t, EnvBoolDefault("CFG_TEST_BOOL", true))
	assert.True(t, EnvBoolDefault("CFG_TEST_UNSET", true))
	assert.Equal(t, 42*time.Minute, EnvMinutesDefault("CFG_TEST_INT", 15))
	assert.Equal(t, 7*24*time.Hour, EnvDaysDefault("CFG_TEST_UNSET", 7))
}

func TestLoad_ServicePrefixWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "generic.db")
	t.Setenv("NOTE_DATABASE_URL", "notes.db")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "fallback")

	cfg := Load("note", 8003)
	assert.Equal(t, "notes.db", cfg.DatabaseURL)
	assert.Equal(t, []byte("fallback"), cfg.JWTSecret)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
}

func TestLoadEnv_SkipsMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CFG_TEST_FROM_FILE=yes\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CFG_TEST_FROM_FILE") })

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "yes", os.Getenv("CFG_TEST_FROM_FILE"))
}
