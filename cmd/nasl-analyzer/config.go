package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// config is the set of bootstrap settings the server can start with, before
// any workspace/didChangeConfiguration notification arrives. Per spec §6,
// didChangeConfiguration remains the primary runtime configuration channel;
// these flags only seed sane defaults for local development, the same way
// the teacher's CLI entry point layers --flag bootstrap config on top of
// whatever a client negotiates at runtime.
type config struct {
	roots    []string
	openvas  string
	logFile  string
	logLevel string
}

// parseConfig parses os.Args[1:], first loading defaults from a .env file in
// the working directory if one is present (github.com/joho/godotenv, exactly
// as the teacher's own CLI entry point does for local-dev convenience). A
// missing .env file is not an error.
func parseConfig(args []string) (*config, error) {
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("nasl-analyzer", pflag.ContinueOnError)
	roots := fs.StringSlice("root", nil, "Include search root (repeatable). Extends the set supplied by workspace/didChangeConfiguration.")
	openvas := fs.String("openvas", os.Getenv("NASL_ANALYZER_OPENVAS"), "Path to an OpenVAS checkout or nasl_init.c, for built-in go-to-definition fallback.")
	logFile := fs.String("log-file", "", "Path to a log file. Defaults to $HOME/.cache/nasl-analyzer/server.log.")
	logLevel := fs.String("log-level", "info", "Minimum log level: debug, info, warn, error.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &config{
		roots:    *roots,
		openvas:  *openvas,
		logFile:  *logFile,
		logLevel: *logLevel,
	}, nil
}

// defaultLogPath mirrors the original Neovim-integrated implementation's log
// placement under $HOME/.cache, generalized away from a Neovim-specific
// subdirectory since this server no longer assumes a single editor.
func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return home + "/.cache/nasl-analyzer/server.log"
}
