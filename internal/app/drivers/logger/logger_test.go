package logger

import (
	"supervision-service/internal/app/config"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBuildZapConfig(t *testing.T) {
	driverConfig := &config.DriverConfig{Logger: config.Logger{
		Level:               "warn",
		OutputFileName:      "app.log",
		OutputErrorFileName: "app_error.log",
		ServiceName:         "supervision-service",
	}}

	t.Run("Production writes to files", func(t *testing.T) {
		cfg := buildZapConfig(driverConfig, &config.InternalConfig{App: config.App{Env: "production"}})

		assert.Equal(t, []string{"app.log"}, cfg.OutputPaths)
		assert.Equal(t, []string{"stderr", "app_error.log"}, cfg.ErrorOutputPaths)
		assert.Equal(t, zap.WarnLevel, cfg.Level.Level())
		assert.False(t, cfg.Development)
		assert.Equal(t, "supervision-service", cfg.InitialFields["service"])
		assert.Equal(t, "production", cfg.InitialFields["env"])
	})

	t.Run("Development writes to console", func(t *testing.T) {
		cfg := buildZapConfig(&config.DriverConfig{}, &config.InternalConfig{App: config.App{Env: "development"}})

		assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
		assert.Equal(t, zap.InfoLevel, cfg.Level.Level())
		assert.True(t, cfg.Development)
		assert.NotContains(t, cfg.InitialFields, "service")
	})
}

func TestNewLogrusLogger(t *testing.T) {
	logger := NewLogrusLogger("production", true)

	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	assert.Equal(t, logrus.InfoLevel, NewLogrusLogger("development", false).Level)
}
