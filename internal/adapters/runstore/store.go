package runstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/pagination"
)

const fileTimeFormat = "20060102_150405"

// FileRunStore keeps one JSON document per run in a metrics directory.
type FileRunStore struct {
	dir string
}

// NewFileRunStore creates a run store writing to dir. The directory is created on first save.
func NewFileRunStore(dir string) *FileRunStore {
	return &FileRunStore{dir: dir}
}

var _ portsrepo.RunRepositoryFacade = (*FileRunStore)(nil)

// FileName returns the metrics file name of a run: run_<YYYYMMDD_HHMMSS>_<id8>.json.
func FileName(run domain.PipelineRun) string {
	return fmt.Sprintf("run_%s_%s.json", run.StartedAt.UTC().Format(fileTimeFormat), run.ShortID())
}

// SaveRun writes the run to its own file.
func (s *FileRunStore) SaveRun(ctx context.Context, run domain.PipelineRun) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create metrics dir %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", run.RunID, err)
	}
	path := filepath.Join(s.dir, FileName(run))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run %s: %w", run.RunID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize run %s: %w", run.RunID, err)
	}
	return nil
}

// FindRunByID scans the metrics directory for the run.
func (s *FileRunStore) FindRunByID(ctx context.Context, runID string) (*domain.PipelineRun, error) {
	runs, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].RunID == runID {
			return &runs[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// ListRuns returns runs ordered by start time, newest first, continuing after nextToken.
func (s *FileRunStore) ListRuns(ctx context.Context, limit int, nextToken *string) (*domain.RunPage, error) {
	runs, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool {
		return newerThan(runs[i], runs[j])
	})

	start := 0
	if nextToken != nil && *nextToken != "" {
		startedAt, runID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor := domain.PipelineRun{RunID: runID, StartedAt: startedAt}
		start = sort.Search(len(runs), func(i int) bool {
			return newerThan(cursor, runs[i])
		})
	}

	end := start + limit
	if limit <= 0 || end > len(runs) {
		end = len(runs)
	}

	page := &domain.RunPage{Runs: runs[start:end]}
	if end < len(runs) && end > start {
		last := runs[end-1]
		token := pagination.EncodeToken(last.StartedAt, last.RunID)
		page.NextToken = &token
	}
	return page, nil
}

func newerThan(a, b domain.PipelineRun) bool {
	if !a.StartedAt.Equal(b.StartedAt) {
		return a.StartedAt.After(b.StartedAt)
	}
	return a.RunID > b.RunID
}

func (s *FileRunStore) loadAll() ([]domain.PipelineRun, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics dir %s: %w", s.dir, err)
	}

	runs := make([]domain.PipelineRun, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "run_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var run domain.PipelineRun
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
