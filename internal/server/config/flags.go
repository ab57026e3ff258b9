package config

import (
	"flag"
	"os"
	"time"

	"github.com/ekoshkin/recallbox/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-p int      purge job interval, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The purge interval flag is accepted as an integer in minutes and then
//     converted to a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	purgeInterval := fs.Int("p", int(config.PurgeInterval.Minutes()), "purge interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PurgeInterval = time.Duration(*purgeInterval) * time.Minute
}
