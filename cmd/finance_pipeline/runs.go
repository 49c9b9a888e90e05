package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/finance_batch_pipeline/internal/adapters/runstore"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/services"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Summarize the most recent pipeline runs",
	Args:  cobra.NoArgs,
	RunE:  listRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print one recorded run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  showRun,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "number of runs to show")
	runsCmd.AddCommand(runsShowCmd)
}

func listRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	repos, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	page, err := services.NewServiceContainer(repos, nil).Batch.ListRuns(ctx, runsLimit, nil)
	if err != nil {
		return err
	}
	if len(page.Runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}
	return writeRunTable(cmd, page.Runs)
}

func writeRunTable(cmd *cobra.Command, runs []domain.PipelineRun) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tTIMESTAMP\tDECISION\tINPUT_ROWS\tCLEAN_ROWS\tQUARANTINE_RATE\tINCOME_TOTAL\tEXPENSE_TOTAL\tNET_TOTAL")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s%%\t%s\t%s\t%s\n",
			runstore.FileName(r),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Decision,
			r.InputRows,
			r.CleanRows,
			accounting.FormatWithPrecision(r.RejectionRate.Mul(decimal.NewFromInt(100)), 2),
			accounting.FormatMoney(r.IncomeTotal),
			accounting.FormatMoney(r.ExpenseTotal),
			accounting.FormatMoney(r.NetTotal),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repos, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := services.NewServiceContainer(repos, nil).Batch.GetRun(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
