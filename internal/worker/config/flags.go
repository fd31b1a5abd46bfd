package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the TaskForge API
//	-u string   service account username
//	-p string   service account password
//	-i int      poll interval in seconds
//	-n int      max attempts per API call
//	-once       run a single pass and exit
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-p", "-i", "-n", "-once"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the API")
	fs.StringVar(&cfg.ServiceUser, "u", cfg.ServiceUser, "service account username")
	fs.StringVar(&cfg.ServicePassword, "p", cfg.ServicePassword, "service account password")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")
	fs.IntVar(&cfg.MaxAttempts, "n", cfg.MaxAttempts, "max attempts per API call")
	fs.BoolVar(&cfg.Once, "once", cfg.Once, "run a single pass and exit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
