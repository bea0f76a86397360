package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/rickgao/thirteenf/internal/config"
	"github.com/rickgao/thirteenf/internal/report"
)

// as a CLI application, it has a very short lived lifecycle, so package level flags are fine.

var (
	configPath = flag.String("config", "", "Path to the YAML config file. Defaults are used when empty.")
	envFile    = flag.String("env", ".env", "Optional dotenv file loaded before the config.")
	style      = flag.String("style", "auto", "Terminal style (auto, dark, light, notty, ascii).")
	width      = flag.Int("width", report.DefaultWordWrap, "Terminal word wrap width.")
	verbose    = flag.Bool("v", false, "Log debug output to stderr.")
)

// loadConfig reads the environment file and the config, then builds a logger
// writing to stderr.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	var cfg *config.Config
	if *configPath != "" {
		c, err := config.LoadAndValidate(*configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = c
	} else {
		cfg = config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w (set %s or pass -config)", err, config.EnvUserAgent)
		}
	}

	// Logs go to stderr as text, warnings only unless -v.
	cfg.Log.Format = "text"
	if *verbose {
		cfg.Log.Level = "debug"
	} else if cfg.Log.Level == config.DefaultLogLevel {
		cfg.Log.Level = "warn"
	}
	return cfg, cfg.Log.NewLogger(os.Stderr), nil
}

// printMarkdown writes md to stdout, rendered for the terminal when stdout is
// one and plain is false.
func printMarkdown(md string, plain bool) {
	if plain || !isTerminal(os.Stdout) {
		fmt.Print(md)
		return
	}
	out, err := report.Terminal(md, *style, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
