package main

import (
	"fmt"

	"github.com/SscSPs/finance_batch_pipeline/internal/adapters/csvio"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/services"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var runFlags struct {
	input                string
	processedDir         string
	goldDir              string
	mode                 string
	maxRejectRate        string
	maxRejectRows        int
	quarantineDuplicates bool
}

var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one CSV batch and write its artifacts",
		Long: `Reads the input CSV, validates every row, applies the rejection threshold gate,
aggregates the clean rows and writes the processed and gold artifacts. The run is
recorded in the configured run store. Exits with status 1 when the batch fails the
gate in STRICT mode.`,
		Args: cobra.NoArgs,
		RunE: runBatch,
	}

	f := cmd.Flags()
	f.StringVarP(&runFlags.input, "input", "i", "", "input CSV (default INPUT_PATH)")
	f.StringVar(&runFlags.processedDir, "processed-dir", "", "directory for clean, quarantine and report files (default PROCESSED_DIR)")
	f.StringVar(&runFlags.goldDir, "gold-dir", "", "directory for analytics and summary files (default GOLD_DIR)")
	f.StringVar(&runFlags.mode, "mode", "", "gate mode: STRICT or LENIENT (default POLICY_MODE)")
	f.StringVar(&runFlags.maxRejectRate, "max-reject-rate", "", "maximum rejection rate in [0,1] (default POLICY_MAX_REJECT_RATE)")
	f.IntVar(&runFlags.maxRejectRows, "max-reject-rows", 0, "maximum rejected rows, 0 disables (default POLICY_MAX_REJECT_ROWS)")
	f.BoolVar(&runFlags.quarantineDuplicates, "quarantine-duplicates", false, "reject rows with a repeated transaction_id (default POLICY_QUARANTINE_DUPLICATES)")
	return cmd
}

// policyFromFlags applies the flags the user set on top of the configured policy.
func policyFromFlags(cmd *cobra.Command, base domain.ValidationPolicy) (domain.ValidationPolicy, error) {
	p := base
	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := domain.ParseGateMode(runFlags.mode)
		if err != nil {
			return base, err
		}
		p.Mode = mode
	}
	if flags.Changed("max-reject-rate") {
		rate, err := decimal.NewFromString(runFlags.maxRejectRate)
		if err != nil {
			return base, fmt.Errorf("invalid --max-reject-rate: %w", err)
		}
		p.MaxRejectRate = rate
	}
	if flags.Changed("max-reject-rows") {
		p.MaxRejectRows = runFlags.maxRejectRows
	}
	if flags.Changed("quarantine-duplicates") {
		p.QuarantineDuplicates = runFlags.quarantineDuplicates
	}
	return p, p.Validate()
}

func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	policy, err := policyFromFlags(cmd, cfg.Policy())
	if err != nil {
		return err
	}
	input := stringFlag(cmd, "input", runFlags.input, cfg.InputPath)
	processedDir := stringFlag(cmd, "processed-dir", runFlags.processedDir, cfg.ProcessedDir)
	goldDir := stringFlag(cmd, "gold-dir", runFlags.goldDir, cfg.GoldDir)

	log.Info().Str("input", input).Str("mode", string(policy.Mode)).Str("max_reject_rate", policy.MaxRejectRate.String()).Msg("Starting batch run")

	records, err := csvio.ReadFile(input)
	if err != nil {
		return err
	}

	repos, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	repos.ArtifactRepo = csvio.NewArtifactStore(processedDir, goldDir)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, log)
	defer posthogClient.Close()

	container := services.NewServiceContainer(repos, posthogClient)
	outcome, err := container.Batch.ProcessBatch(ctx, domain.BatchRequest{
		Source:  input,
		Records: records,
		Policy:  policy,
	})
	if outcome != nil {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, outcome.Result.Report.Render())
		fmt.Fprintf(out, "\nRun %s recorded (%s).\n", outcome.Run.RunID, outcome.Run.Duration())
	}
	return err
}
