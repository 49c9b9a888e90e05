package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/logger"
	"github.com/SscSPs/finance_batch_pipeline/internal/platform/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg *config.Config
	log zerolog.Logger
)

// @title Finance Batch Pipeline API
// @version 1.0
// @description Validates, gates and aggregates departmental transaction batches.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, apperrors.ErrThresholdBreached) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finance_pipeline",
	Short: "Validate, gate and aggregate departmental transaction batches",
	Long: `finance_pipeline checks a batch of transaction rows against a fixed rule set,
quarantines the rows that fail, decides whether the batch may proceed based on its
rejection rate, and aggregates the clean rows into per-department monthly totals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		log = logger.NewWithLevel(cfg.LogLevel, cfg.IsProduction)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logger.WithContext(ctx, log))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json); environment variables take precedence")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(runCmd, serveCmd, runsCmd, migrateCmd, tokenCmd)
}
