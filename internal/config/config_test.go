package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/votes")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, 10*time.Second, cfg.SteamHTTPTimeout)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.CatalogRefreshSchedule)
	assert.Equal(t, []string{"https://store.steampowered.com"}, cfg.AllowedOrigins())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/votes")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_URL", "https://vote.example.com/")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://vote.example.com", cfg.PublicURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins())
}

func TestLoadDotEnv(t *testing.T) {
	// empty env values are ignored, so the file wins
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STEAM_API_KEY", "")

	dir := t.TempDir()
	env := "DATABASE_URL=postgres://file/votes\nJWT_SECRET=from-file\nSTEAM_API_KEY=abc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/votes", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "abc", cfg.SteamAPIKey)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/votes")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "JWT_SECRET")
}
