package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(5000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, DefaultTokenIssuer, cfg.Auth.TokenIssuer)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Positive(t, cfg.Auth.HashConcurrency)
	assert.Equal(t, 5*time.Second, cfg.Auth.HashTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "0 3 * * *", cfg.Purge.Schedule)
	assert.Equal(t, 720*time.Hour, cfg.Purge.Retention)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=localhost user=app dbname=tasks")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("JOBS_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=localhost user=app dbname=tasks", cfg.Database.DSN)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Jobs.Enabled)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a"}, splitList("a"))
}
