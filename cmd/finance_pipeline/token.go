package main

import (
	"fmt"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/utils"
	"github.com/spf13/cobra"
)

const tokenIssuer = "finance_pipeline"

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token SUBJECT",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Signs a JWT with JWT_SECRET for the given subject (a service or user name).
Pass it to the API as "Authorization: Bearer <token>".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.UsesDefaultJWTSecret() {
			log.Warn().Msg("JWT_SECRET is not set, signing with the built-in development secret")
		}
		token, err := utils.GenerateJWT(args[0], cfg.JWTSecret, tokenTTL, tokenIssuer)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
