package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, "recallbox.db", c.DatabasePath)
	assert.Equal(t, 30*time.Second, c.SyncInterval)
	assert.Equal(t, 3*time.Second, c.PingInterval)
	assert.Equal(t, 15*time.Second, c.RemoteTimeout)
	assert.Equal(t, 10, c.ReviewBatchSize)
	assert.Equal(t, Weights{Fail: 10, Partial: 5, Pass: 1, Unreviewed: 5}, c.ReviewWeights)
	assert.Empty(t, c.GeneratorAPIKey)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
}
