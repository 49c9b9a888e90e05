package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/finance_batch_pipeline/internal/adapters/csvio"
	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/SscSPs/finance_batch_pipeline/internal/platform/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchCSV = `transaction_id,transaction_date,department_id,transaction_type,amount,description
T1,2025-01-05,D1,INCOME,100.00,Sale
T2,2025-01-07,D1,EXPENSE,40,Supplies
T3,2025-02-01,D2,REFUND,-10.005,Refund
T4,,D2,INCOME,50.00,No date
`

func testConfig(t *testing.T, maxRate float64) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(input, []byte(batchCSV), 0o644))
	return &config.Config{
		MaxRejectRate: maxRate,
		Mode:          string(domain.ModeStrict),
		InputPath:     input,
		ProcessedDir:  filepath.Join(dir, "processed"),
		GoldDir:       filepath.Join(dir, "gold"),
		MetricsDir:    filepath.Join(dir, "metrics"),
		RunStore:      runStoreFile,
		JWTSecret:     "test-secret",
	}
}

func executeRun(t *testing.T, c *config.Config, args ...string) (string, error) {
	t.Helper()
	cfg = c
	log = zerolog.Nop()

	cmd := newRunCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.ParseFlags(args))
	err := runBatch(cmd, nil)
	return out.String(), err
}

func TestPolicyFromFlags(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--mode", "lenient", "--max-reject-rate", "0.25", "--max-reject-rows", "3", "--quarantine-duplicates"}))

	p, err := policyFromFlags(cmd, domain.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLenient, p.Mode)
	assert.Equal(t, "0.25", p.MaxRejectRate.String())
	assert.Equal(t, 3, p.MaxRejectRows)
	assert.True(t, p.QuarantineDuplicates)
}

func TestPolicyFromFlags_Unset(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	base := domain.DefaultPolicy()
	p, err := policyFromFlags(cmd, base)
	require.NoError(t, err)
	assert.Equal(t, base, p)
}

func TestPolicyFromFlags_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"--mode", "sometimes"},
		{"--max-reject-rate", "abc"},
		{"--max-reject-rate", "1.5"},
	} {
		cmd := newRunCmd()
		require.NoError(t, cmd.ParseFlags(args))
		_, err := policyFromFlags(cmd, domain.DefaultPolicy())
		assert.Error(t, err, args)
	}
}

func TestRunBatch_PassWithWarning(t *testing.T) {
	c := testConfig(t, 0.5)

	out, err := executeRun(t, c)
	require.NoError(t, err)

	assert.Contains(t, out, "Gate decision: PASS_WITH_WARNING")
	assert.Contains(t, out, "- missing_transaction_date | affected_rows=1")
	assert.FileExists(t, filepath.Join(c.ProcessedDir, csvio.CleanFile))
	assert.FileExists(t, filepath.Join(c.GoldDir, csvio.SummaryFile))

	entries, err := os.ReadDir(c.MetricsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunBatch_FailStrict(t *testing.T) {
	c := testConfig(t, 0.05)

	out, err := executeRun(t, c)
	require.ErrorIs(t, err, apperrors.ErrThresholdBreached)

	assert.Contains(t, out, "Gate decision: FAIL_STRICT")
	assert.FileExists(t, filepath.Join(c.ProcessedDir, csvio.QuarantineFile))
	assert.NoFileExists(t, filepath.Join(c.ProcessedDir, csvio.CleanFile))
}

func TestRunBatch_LenientFlagOverridesConfig(t *testing.T) {
	c := testConfig(t, 0.05)

	out, err := executeRun(t, c, "--mode", "LENIENT")
	require.NoError(t, err)
	assert.Contains(t, out, "Gate decision: BREACH_LENIENT")
}

func TestRunBatch_MissingInput(t *testing.T) {
	c := testConfig(t, 0.05)

	_, err := executeRun(t, c, "--input", filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestListRuns_Table(t *testing.T) {
	c := testConfig(t, 0.5)
	_, err := executeRun(t, c)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	runsCmd.SetOut(out)
	runsCmd.SetContext(context.Background())
	runsLimit = 5
	require.NoError(t, listRuns(runsCmd, nil))

	assert.Contains(t, out.String(), "QUARANTINE_RATE")
	assert.Contains(t, out.String(), "PASS_WITH_WARNING")
	assert.Contains(t, out.String(), "25.00%")
}
