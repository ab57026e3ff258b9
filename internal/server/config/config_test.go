package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Contains(t, c.DatabaseDSN, "postgres://")
	assert.Equal(t, time.Hour, c.PurgeInterval)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-a", ":9090", "-d", "postgres://u:p@db:5432/x", "-p", "30"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.PurgeInterval)
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(map[string]any{
		"addr":           ":7070",
		"purge_interval": "15m",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.PurgeInterval)
	// untouched fields keep their defaults
	assert.Contains(t, cfg.DatabaseDSN, "postgres://")
}
