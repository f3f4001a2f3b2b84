package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dosada05/swiss-tournament/config"
)

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// loadConfig загружает конфигурацию и настраивает логгер по LOG_LEVEL.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, newLogger(slog.LevelInfo), err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swiss",
		Short: "Swiss-system tournament standings and pairing service",
		Long: `swiss tracks Swiss-system tournaments: players register, match results are
recorded, and next-round pairings are computed from the current standings.

Storage is selected with STORAGE_DRIVER (postgres, sqlite, redis, memory).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
