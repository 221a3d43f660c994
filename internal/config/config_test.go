package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 10, cfg.Queue.AverageServiceMinutes)
	assert.Equal(t, "0 0 22 * * *", cfg.Queue.ResetCron)
	assert.Equal(t, 5, cfg.Database.LockWaitTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Same(t, cfg, AppConfig)
}

func TestLoad_ReadsModePrefixedSettings(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("AVG_SERVICE_MINUTES", "7")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, 7, cfg.Queue.AverageServiceMinutes)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
}

func TestLoad_Rejects(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "prod")
	_, err = Load()
	assert.ErrorContains(t, err, "PROD_JWT_SECRET")

	t.Setenv("APP_MODE", "dev")
	t.Setenv("AVG_SERVICE_MINUTES", "-1")
	_, err = Load()
	assert.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{
		Host: "localhost", Port: "3306", User: "shop", Password: "pw",
		DBName: "shopserve", LockWaitTimeout: 5,
	})
	assert.Contains(t, dsn, "shop:pw@tcp(localhost:3306)/shopserve?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "innodb_lock_wait_timeout=5")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
