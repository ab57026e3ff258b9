// Package config loads runtime configuration for the recallbox CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the sync backend
//	-d string   path of the local SQLite file
//	-s int      background sync interval (seconds)
//	-i int      online status check interval (seconds)
//	-t int      remote request timeout (seconds)
//	-k string   API key for the text generator
//	-m string   model name for the text generator
//	-n int      review batch size
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "database_path": "recallbox.db",
//	  "sync_interval": "30s",
//	  "ping_interval": "3s",
//	  "remote_timeout": "15s",
//	  "generator_api_key": "sk-...",
//	  "review_batch_size": 10,
//	  "review_weights": {"fail": 10, "partial": 5, "pass": 1, "unreviewed": 5}
//	}
//
// Primary API
//
//   - type Config                     — all client settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
