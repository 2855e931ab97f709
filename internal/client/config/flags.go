package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/getfit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-auth string        auth service base URL
//	-nutrition string   nutrition service base URL
//	-t duration         request timeout, e.g. 5s
//	-db string          credential database path
//	-log string         log level
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// components (such as -c) do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-auth", "-nutrition", "-t", "-db", "-log"})

	fs := flag.NewFlagSet("getfit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthBaseURL, "auth", cfg.AuthBaseURL, "auth service base URL")
	fs.StringVar(&cfg.NutritionBaseURL, "nutrition", cfg.NutritionBaseURL, "nutrition service base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StoragePath, "db", cfg.StoragePath, "credential database path")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error)")

	return fs.Parse(args)
}
