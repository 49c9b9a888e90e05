package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	"github.com/SscSPs/finance_batch_pipeline/internal/logger"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/accounting"
)

// Artifact file names.
const (
	CleanFile      = "transactions_clean.csv"
	QuarantineFile = "transactions_quarantine.csv"
	ReportFile     = "validation_report.txt"
	AnalyticsFile  = "transactions_analytics.csv"
	SummaryFile    = "department_monthly_summary.csv"

	rejectionReasonsColumn = "rejection_reasons"
	reasonSeparator        = ";"
)

var analyticsColumns = []string{
	domain.FieldTransactionID,
	domain.FieldTransactionDate,
	domain.FieldDepartmentID,
	domain.FieldTransactionType,
	domain.FieldAmount,
	domain.FieldDescription,
	"year",
	"month",
	"year_month",
	"amount_normalized",
}

var summaryColumns = []string{
	domain.FieldDepartmentID,
	"year_month",
	"total_income",
	"total_expense",
	"total_refund",
	"net",
}

// ArtifactStore writes run artifacts as CSV and text files.
// Processed files (clean, quarantine, report) go to ProcessedDir, analytics to GoldDir.
// With PerRun set, each run gets its own <dir>/<run id> subdirectory instead of overwriting the last run.
type ArtifactStore struct {
	ProcessedDir string
	GoldDir      string
	PerRun       bool
}

// NewArtifactStore creates an artifact store rooted at the given directories.
func NewArtifactStore(processedDir, goldDir string) *ArtifactStore {
	return &ArtifactStore{ProcessedDir: processedDir, GoldDir: goldDir}
}

// NewPerRunArtifactStore creates an artifact store that keeps every run's files apart.
func NewPerRunArtifactStore(processedDir, goldDir string) *ArtifactStore {
	return &ArtifactStore{ProcessedDir: processedDir, GoldDir: goldDir, PerRun: true}
}

func (s *ArtifactStore) dirs(runID string) (processed, gold string) {
	if s.PerRun {
		return filepath.Join(s.ProcessedDir, runID), filepath.Join(s.GoldDir, runID)
	}
	return s.ProcessedDir, s.GoldDir
}

var _ portsrepo.ArtifactWriter = (*ArtifactStore)(nil)

// WriteArtifacts writes the quarantine file and the report for every run. The clean file
// and gold outputs are only written when the gate let the batch through; otherwise any
// copies left by an earlier run in the same directories are removed.
func (s *ArtifactStore) WriteArtifacts(ctx context.Context, runID string, result *domain.PipelineResult) error {
	log := logger.FromContext(ctx)
	processedDir, goldDir := s.dirs(runID)

	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", processedDir, err)
	}

	written := []string{}
	write := func(dir, name string, fn func(path string) error) error {
		path := filepath.Join(dir, name)
		if err := fn(path); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := write(processedDir, QuarantineFile, func(p string) error { return writeQuarantine(p, result) }); err != nil {
		return err
	}
	if err := write(processedDir, ReportFile, func(p string) error {
		return os.WriteFile(p, []byte(result.Report.Render()), 0o644)
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if result.Gate.Decision.Passed() {
		if err := os.MkdirAll(goldDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", goldDir, err)
		}
		if err := write(processedDir, CleanFile, func(p string) error { return writeClean(p, result) }); err != nil {
			return err
		}
		if err := write(goldDir, AnalyticsFile, func(p string) error { return writeAnalytics(p, result.Normalized) }); err != nil {
			return err
		}
		if err := write(goldDir, SummaryFile, func(p string) error { return writeSummary(p, result.Aggregates) }); err != nil {
			return err
		}
	} else if err := removeStale(
		filepath.Join(processedDir, CleanFile),
		filepath.Join(goldDir, AnalyticsFile),
		filepath.Join(goldDir, SummaryFile),
	); err != nil {
		return err
	}

	log.Info().Str("run_id", runID).Strs("files", written).Msg("Wrote run artifacts")
	return nil
}

func removeStale(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale %s: %w", p, err)
		}
	}
	return nil
}

func writeClean(path string, result *domain.PipelineResult) error {
	rows := make([][]string, 0, len(result.Split.Valid))
	for _, rec := range result.Split.Valid {
		rows = append(rows, rawRow(rec, result.Columns))
	}
	return writeCSV(path, result.Columns, rows)
}

func writeQuarantine(path string, result *domain.PipelineResult) error {
	header := append(append([]string{}, result.Columns...), rejectionReasonsColumn)
	rows := make([][]string, 0, len(result.Split.Rejected))
	for _, out := range result.Split.Rejected {
		reasons := make([]string, len(out.Reasons))
		for i, r := range out.Reasons {
			reasons[i] = string(r)
		}
		rows = append(rows, append(rawRow(out.Record, result.Columns), strings.Join(reasons, reasonSeparator)))
	}
	return writeCSV(path, header, rows)
}

func writeAnalytics(path string, records []domain.NormalizedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.TransactionID,
			r.TransactionDate.Format("2006-01-02"),
			r.DepartmentID,
			string(r.TransactionType),
			r.Amount.String(),
			r.Description,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.YearMonth,
			accounting.FormatMoney(r.AmountNormalized),
		})
	}
	return writeCSV(path, analyticsColumns, rows)
}

func writeSummary(path string, aggregates []domain.AggregateRow) error {
	rows := make([][]string, 0, len(aggregates))
	for _, a := range aggregates {
		rows = append(rows, []string{
			a.DepartmentID,
			a.YearMonth,
			accounting.FormatMoney(a.TotalIncome),
			accounting.FormatMoney(a.TotalExpense),
			accounting.FormatMoney(a.TotalRefund),
			accounting.FormatMoney(a.Net),
		})
	}
	return writeCSV(path, summaryColumns, rows)
}

func rawRow(rec domain.TransactionRecord, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		if v := rec.Field(col); v != nil {
			row[i] = *v
		}
	}
	return row
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
