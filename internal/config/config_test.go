package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/app")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://localhost:5000", cfg.App.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifespan)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, UploadProviderLocal, cfg.Upload.Provider)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 5, cfg.Redis.LoginMaxAttempts)
	assert.Equal(t, "user.events", cfg.Kafka.UserTopic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/app")
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("BASE_URL", "https://api.example.com/")
	t.Setenv("TOKEN_LIFESPAN", "2h")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.example.com", cfg.App.BaseURL)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenLifespan)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := "app:\n  port: \"9000\"\nauth:\n  jwt_secret: from-file\ndb:\n  dsn: postgres://file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://file", cfg.DB.DSN)
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/app")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DSN", "")

	_, err = LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingDSN)
}
