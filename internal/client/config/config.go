package config

import "time"

// Weights controls how strongly each mastery outcome is favoured when a
// review batch is drawn. Higher means picked more often.
type Weights struct {
	Fail       int
	Partial    int
	Pass       int
	Unreviewed int
}

// Config holds runtime settings for the recallbox CLI.
//
// Fields:
//   - ServerURL: base URL of the sync backend, e.g. "http://127.0.0.1:8080".
//   - DatabasePath: path of the local SQLite file.
//   - SyncInterval: how often a background sync cycle is triggered.
//   - PingInterval: how often the client probes server reachability.
//   - RemoteTimeout: per-request timeout for calls to the backend.
//   - GeneratorBaseURL, GeneratorAPIKey, GeneratorModel: OpenAI-compatible
//     endpoint used to generate example text for new cards.
//   - ReviewBatchSize: how many cards a review session draws.
//   - ReviewWeights: mastery-based selection weights for review batches.
type Config struct {
	ServerURL        string
	DatabasePath     string
	SyncInterval     time.Duration
	PingInterval     time.Duration
	RemoteTimeout    time.Duration
	GeneratorBaseURL string
	GeneratorAPIKey  string
	GeneratorModel   string
	ReviewBatchSize  int
	ReviewWeights    Weights
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "recallbox.db"
	c.SyncInterval = 30 * time.Second
	c.PingInterval = 3 * time.Second
	c.RemoteTimeout = 15 * time.Second
	c.GeneratorBaseURL = "https://api.openai.com/v1"
	c.GeneratorModel = "gpt-4o-mini"
	c.ReviewBatchSize = 10
	c.ReviewWeights = Weights{Fail: 10, Partial: 5, Pass: 1, Unreviewed: 5}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
