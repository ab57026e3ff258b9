package config

import (
	"flag"
	"os"
	"time"

	"github.com/ekoshkin/recallbox/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the sync backend (default from Config)
//	-d string   path of the local SQLite file
//	-s int      background sync interval in seconds
//	-i int      online check interval in seconds
//	-t int      remote request timeout in seconds
//	-k string   API key for the text generator
//	-m string   model name for the text generator
//	-n int      review batch size
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i", "-t", "-k", "-m", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the sync backend")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local SQLite file")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "background sync interval (in seconds)")
	pingInterval := fs.Int("i", int(cfg.PingInterval.Seconds()), "online check interval (in seconds)")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote request timeout (in seconds)")
	fs.StringVar(&cfg.GeneratorAPIKey, "k", cfg.GeneratorAPIKey, "API key for the text generator")
	fs.StringVar(&cfg.GeneratorModel, "m", cfg.GeneratorModel, "model name for the text generator")
	fs.IntVar(&cfg.ReviewBatchSize, "n", cfg.ReviewBatchSize, "review batch size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
	cfg.PingInterval = time.Duration(*pingInterval) * time.Second
	cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
}
