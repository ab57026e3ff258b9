package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_url":        "http://sync.example:9000",
		"sync_interval":     "45s",
		"generator_api_key": "sk-json",
		"review_batch_size": 7,
		"review_weights":    map[string]any{"fail": 8, "partial": 4, "pass": 2, "unreviewed": 6},
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://sync.example:9000", cfg.ServerURL)
		assert.Equal(t, 45*time.Second, cfg.SyncInterval)
		assert.Equal(t, "sk-json", cfg.GeneratorAPIKey)
		assert.Equal(t, 7, cfg.ReviewBatchSize)
		assert.Equal(t, Weights{Fail: 8, Partial: 4, Pass: 2, Unreviewed: 6}, cfg.ReviewWeights)
		// fields absent from the file keep their defaults
		assert.Equal(t, 3*time.Second, cfg.PingInterval)
		assert.Equal(t, "recallbox.db", cfg.DatabasePath)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			ServerURL:    "http://defaults:1234",
			SyncInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.SyncInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
