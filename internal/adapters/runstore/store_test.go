package runstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(id string, startedAt time.Time) domain.PipelineRun {
	return domain.PipelineRun{
		RunID:         id,
		StartedAt:     startedAt,
		FinishedAt:    startedAt.Add(2 * time.Second),
		Source:        "data/raw/transactions_sample.csv",
		Mode:          domain.ModeStrict,
		Decision:      domain.PassWithWarning,
		InputRows:     4,
		CleanRows:     3,
		RejectedRows:  1,
		RejectionRate: decimal.RequireFromString("0.25"),
		NetTotal:      decimal.RequireFromString("50.00"),
		Aggregates: []domain.AggregateRow{{
			DepartmentID: "D1", YearMonth: "2025-01",
			TotalIncome: decimal.RequireFromString("100"), Net: decimal.RequireFromString("50"),
		}},
	}
}

func TestFileName(t *testing.T) {
	run := sampleRun("0badc0de-0000-4000-8000-000000000001", time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC))
	assert.Equal(t, "run_20250301_090507_0badc0de.json", FileName(run))
}

func TestSaveAndFind(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "metrics")
	store := NewFileRunStore(dir)
	ctx := context.Background()
	run := sampleRun("0badc0de-0000-4000-8000-000000000001", time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC))

	require.NoError(t, store.SaveRun(ctx, run))
	assert.FileExists(t, filepath.Join(dir, FileName(run)))

	got, err := store.FindRunByID(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.True(t, got.RejectionRate.Equal(run.RejectionRate))
	require.Len(t, got.Aggregates, 1)
	assert.Equal(t, "D1", got.Aggregates[0].DepartmentID)

	_, err = store.FindRunByID(ctx, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListRuns_EmptyDir(t *testing.T) {
	store := NewFileRunStore(filepath.Join(t.TempDir(), "does-not-exist"))

	page, err := store.ListRuns(context.Background(), 10, nil)

	require.NoError(t, err)
	assert.Empty(t, page.Runs)
	assert.Nil(t, page.NextToken)
}

func TestListRuns_Pagination(t *testing.T) {
	dir := t.TempDir()
	store := NewFileRunStore(dir)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveRun(ctx, sampleRun(fmt.Sprintf("run%05d-aaaa", i), base.Add(time.Duration(i)*time.Minute))))
	}
	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	first, err := store.ListRuns(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, first.Runs, 2)
	assert.Equal(t, "run00004-aaaa", first.Runs[0].RunID)
	assert.Equal(t, "run00003-aaaa", first.Runs[1].RunID)
	require.NotNil(t, first.NextToken)

	second, err := store.ListRuns(ctx, 2, first.NextToken)
	require.NoError(t, err)
	require.Len(t, second.Runs, 2)
	assert.Equal(t, "run00002-aaaa", second.Runs[0].RunID)
	require.NotNil(t, second.NextToken)

	third, err := store.ListRuns(ctx, 2, second.NextToken)
	require.NoError(t, err)
	require.Len(t, third.Runs, 1)
	assert.Equal(t, "run00000-aaaa", third.Runs[0].RunID)
	assert.Nil(t, third.NextToken)
}

func TestListRuns_BadToken(t *testing.T) {
	store := NewFileRunStore(t.TempDir())
	bad := "!!"

	_, err := store.ListRuns(context.Background(), 2, &bad)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
