package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK",
			args:        []string{"cmd", "-a", "http://sync.example:9090", "-d", "cards.db", "-s", "60", "-i", "5", "-t", "20", "-k", "sk-test", "-m", "gpt-4o", "-n", "25"},
			expectPanic: false,
			expected: &Config{
				ServerURL:       "http://sync.example:9090",
				DatabasePath:    "cards.db",
				SyncInterval:    60 * time.Second,
				PingInterval:    5 * time.Second,
				RemoteTimeout:   20 * time.Second,
				GeneratorAPIKey: "sk-test",
				GeneratorModel:  "gpt-4o",
				ReviewBatchSize: 25,
			}},
		{name: "Test2 incorrect sync interval", args: []string{"cmd", "-a", "http://sync.example:9090", "-s", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
