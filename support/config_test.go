package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadsDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.Nil(t, err)

	assert.Equal(t, Memory, cfg.Mode)
	assert.Equal(t, ":9080", cfg.ListenAddress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "none", cfg.Exporter)
	assert.Equal(t, "wee-indicator", cfg.TableName)
	assert.Equal(t, "indicator", cfg.SubjectPrefix)
	assert.NotEmpty(t, cfg.Source)
}

func readsEnvironment(t *testing.T) {
	t.Setenv("WEE_INDICATOR_MODE", "local")
	t.Setenv("WEE_INDICATOR_LISTEN_ADDRESS", ":8181")
	t.Setenv("WEE_INDICATOR_SOURCE", "worker-7")
	t.Setenv("WEE_INDICATOR_NATS_URL", "nats://queue:4222")

	cfg, err := LoadConfig()
	require.Nil(t, err)

	assert.Equal(t, Local, cfg.Mode)
	assert.Equal(t, ":8181", cfg.ListenAddress)
	assert.Equal(t, "worker-7", cfg.Source)
	assert.Equal(t, "nats://queue:4222", cfg.NatsURL)
}

func rejectsUnknownMode(t *testing.T) {
	t.Setenv("WEE_INDICATOR_MODE", "cloud")

	_, err := LoadConfig()
	assert.NotNil(t, err)
}

func TestConfig(t *testing.T) {
	t.Run("loads defaults", loadsDefaults)
	t.Run("reads environment", readsEnvironment)
	t.Run("rejects unknown mode", rejectsUnknownMode)
}
