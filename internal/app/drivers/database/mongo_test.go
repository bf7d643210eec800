package database

import (
	"supervision-service/internal/app/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMongoOptions(t *testing.T) {
	driverConfig := &config.DriverConfig{
		MongoDB: config.MongoDB{
			Host:                    "mongo",
			Port:                    "27017",
			Username:                "officer",
			Password:                "secret",
			MaxPoolSize:             25,
			ConnectTimeoutInSeconds: 3,
		},
		Logger: config.Logger{ServiceName: "supervision-service"},
	}

	clientOptions := buildMongoOptions(driverConfig)

	require.NotNil(t, clientOptions.MaxPoolSize)
	assert.Equal(t, uint64(25), *clientOptions.MaxPoolSize)
	require.NotNil(t, clientOptions.AppName)
	assert.Equal(t, "supervision-service", *clientOptions.AppName)
	require.NotNil(t, clientOptions.ConnectTimeout)
	assert.Equal(t, 3*time.Second, *clientOptions.ConnectTimeout)
	assert.Equal(t, []string{"mongo:27017"}, clientOptions.Hosts)
}

func TestMongoConnectTimeoutDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, mongoConnectTimeout(&config.DriverConfig{}))
}
