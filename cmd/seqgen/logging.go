package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"seqgen/internal/project"
)

// newLogger builds the slog logger handed to the driver. --log-level wins over
// the manifest; --quiet caps output at errors.
func newLogger(cmd *cobra.Command, cfg project.Config) (*slog.Logger, error) {
	levelCfg := cfg.Log
	if flag, err := cmd.Root().PersistentFlags().GetString("log-level"); err == nil && flag != "" {
		levelCfg.Level = flag
	}
	level, err := levelCfg.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelCfg.Level, err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet && level < slog.LevelError {
		level = slog.LevelError
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "seqgen",
		Level:  log.Level(level),
	})
	return slog.New(handler), nil
}
