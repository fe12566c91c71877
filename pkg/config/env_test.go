package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FEIN_TEST_VAR", "test_value")

	assert.Equal(t, "test_value", GetEnv("FEIN_TEST_VAR", "default"))
	assert.Equal(t, "default", GetEnv("FEIN_NONEXISTENT_VAR", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fein.env"), []byte("FEIN_FROM_FILE=yes\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("FEIN_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("FEIN_FROM_FILE"))

	path, err := LoadEnvFile("fein.env")
	require.NoError(t, err)
	assert.Equal(t, "fein.env", filepath.Base(path))
	assert.Equal(t, "yes", os.Getenv("FEIN_FROM_FILE"))

	_, err = LoadEnvFile("missing.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "super-secret-value")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "HS256", cfg.Auth.Jwt.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, []string{"admin@fein.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "super-secret-value")
	t.Setenv("AUTH_JWT_ALGORITHM", "hs512")
	t.Setenv("AUTH_JWT_EXPIRY", "15m")
	t.Setenv("AUTH_ADMIN_EMAILS", "root@fein.com,ops@fein.com")
	t.Setenv("DATABASE_URL", "sqlite://fein.db")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.Auth.Jwt.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, []string{"root@fein.com", "ops@fein.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, "sqlite://fein.db", cfg.DB.Url)
}

func TestLoad_RejectsUnsupportedAlgorithm(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "super-secret-value")
	t.Setenv("AUTH_JWT_ALGORITHM", "RS256")

	_, err := Load("does-not-exist.env")
	assert.ErrorContains(t, err, "unsupported AUTH_JWT_ALGORITHM")
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****able", maskValue("postgres://user:pw@host/db?sslmode=disable"))
}
