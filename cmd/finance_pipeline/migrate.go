package main

import (
	"errors"

	"github.com/SscSPs/finance_batch_pipeline/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the run store database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("PGSQL_URL is required to run migrations")
		}
		_, err := database.RunMigrations(cmd.Context(), cfg.DatabaseURL, cfg.MigrationsPath)
		return err
	},
}
