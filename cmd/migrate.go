package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dosada05/swiss-tournament/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Long:      "Runs the embedded goose migrations for the configured SQL driver (postgres or sqlite).",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			conn, dialect, err := openSQL(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(cmd.Context(), conn, dialect, command, logger); err != nil {
				return err
			}
			logger.Info("migrations finished", slog.String("command", command), slog.String("dialect", dialect))
			return nil
		},
	}
}
