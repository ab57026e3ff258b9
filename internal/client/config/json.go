package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ekoshkin/recallbox/internal/flagx"
	"github.com/ekoshkin/recallbox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerURL        string         `json:"server_url"`
	DatabasePath     string         `json:"database_path"`
	SyncInterval     timex.Duration `json:"sync_interval"`
	PingInterval     timex.Duration `json:"ping_interval"`
	RemoteTimeout    timex.Duration `json:"remote_timeout"`
	GeneratorBaseURL string         `json:"generator_base_url"`
	GeneratorAPIKey  string         `json:"generator_api_key"`
	GeneratorModel   string         `json:"generator_model"`
	ReviewBatchSize  *int           `json:"review_batch_size"`
	ReviewWeights    *JsonWeights   `json:"review_weights"`
}

// JsonWeights mirrors Weights for JSON unmarshalling.
type JsonWeights struct {
	Fail       int `json:"fail"`
	Partial    int `json:"partial"`
	Pass       int `json:"pass"`
	Unreviewed int `json:"unreviewed"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config; string fields and
//     intervals replace defaults only when set, optional fields keep the
//     default when absent.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
	if jc.PingInterval.Duration != 0 {
		cfg.PingInterval = time.Duration(jc.PingInterval.Duration)
	}
	if jc.RemoteTimeout.Duration != 0 {
		cfg.RemoteTimeout = time.Duration(jc.RemoteTimeout.Duration)
	}
	if jc.GeneratorBaseURL != "" {
		cfg.GeneratorBaseURL = jc.GeneratorBaseURL
	}
	if jc.GeneratorAPIKey != "" {
		cfg.GeneratorAPIKey = jc.GeneratorAPIKey
	}
	if jc.GeneratorModel != "" {
		cfg.GeneratorModel = jc.GeneratorModel
	}
	if jc.ReviewBatchSize != nil {
		cfg.ReviewBatchSize = *jc.ReviewBatchSize
	}
	if jc.ReviewWeights != nil {
		cfg.ReviewWeights = Weights{
			Fail:       jc.ReviewWeights.Fail,
			Partial:    jc.ReviewWeights.Partial,
			Pass:       jc.ReviewWeights.Pass,
			Unreviewed: jc.ReviewWeights.Unreviewed,
		}
	}
}
