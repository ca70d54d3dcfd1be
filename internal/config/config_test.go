package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	require.Equal(t, "https://lookup.binlist.net", cfg.Payment.BINLookupURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "httpAddr: \":7070\"\njwt:\n  secret: from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTPAddr)
	require.Equal(t, "from-file", cfg.JWT.Secret)
}

func TestValidate_RejectsDefaultsInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.ErrorIs(t, cfg.Validate(), ErrDefaultJWTSecret)

	t.Setenv("JWT_SECRET", "a-long-random-production-secret")
	cfg, err = FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.ErrorIs(t, cfg.ValidateSeed(), ErrDefaultAdminPassword)

	t.Setenv("SEED_ADMIN_PASSWORD", "Str0ngerSeedPass")
	cfg, err = FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateSeed())
}

func TestValidate_AllowsDefaultsOutsideProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateSeed())
}
