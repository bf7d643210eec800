package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInternalConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := NewInternalConfig()

		assert.Equal(t, 30, cfg.Assessment.LookbackDays)
		assert.Equal(t, "assessment_submitted_queue", cfg.Assessment.SubmittedQueue)
		assert.Equal(t, "v1", cfg.App.Version)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("ASSESSMENT_LOOKBACK_DAYS", "14")
		t.Setenv("ASSESSMENT_LOCK_TTL_IN_SECONDS", "not-a-number")
		t.Setenv("ADMIN_API_KEY_HASH", "$2a$10$hash")

		cfg := NewInternalConfig()

		assert.Equal(t, 14, cfg.Assessment.LookbackDays)
		assert.Equal(t, 10, cfg.Assessment.LockTTLInSeconds)
		assert.Equal(t, "$2a$10$hash", cfg.Admin.APIKeyHash)
	})
}

func TestNewDriverConfig(t *testing.T) {
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MONGODB_DB_NAME", "supervision_test")
	t.Setenv("REDIS_DB", "3")

	cfg := NewDriverConfig()

	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, "supervision_test", cfg.MongoDB.DbName)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 50, cfg.MongoDB.MaxPoolSize)
}
