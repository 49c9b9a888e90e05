package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	"github.com/SscSPs/finance_batch_pipeline/internal/models"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/mapping"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const runColumns = `run_id, started_at, finished_at, source, mode, decision, input_rows, clean_rows, rejected_rows,
		rejection_rate, income_total, expense_total, refund_total, net_total, departments, months`

type PgxRunRepository struct {
	BaseRepository
}

// newPgxRunRepository creates a new repository for pipeline run metadata.
func newPgxRunRepository(pool *pgxpool.Pool) portsrepo.RunRepositoryFacade {
	return &PgxRunRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRunRepository implements portsrepo.RunRepositoryFacade
var _ portsrepo.RunRepositoryFacade = (*PgxRunRepository)(nil)

// SaveRun inserts the run and its aggregate rows within a single DB transaction.
func (r *PgxRunRepository) SaveRun(ctx context.Context, run domain.PipelineRun) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelRun(run)
	runQuery := `
		INSERT INTO pipeline_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, runQuery,
		m.RunID,
		m.StartedAt,
		m.FinishedAt,
		m.Source,
		m.Mode,
		m.Decision,
		m.InputRows,
		m.CleanRows,
		m.RejectedRows,
		m.RejectionRate,
		m.IncomeTotal,
		m.ExpenseTotal,
		m.RefundTotal,
		m.NetTotal,
		m.Departments,
		m.Months,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert pipeline run "+m.RunID, err)
	}

	aggregates := mapping.ToModelAggregates(run.RunID, run.Aggregates)
	if len(aggregates) > 0 {
		batch := &pgx.Batch{}
		aggQuery := `
			INSERT INTO run_aggregates (run_id, department_id, year_month, total_income, total_expense, total_refund, net)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		for _, a := range aggregates {
			batch.Queue(aggQuery, a.RunID, a.DepartmentID, a.YearMonth, a.TotalIncome, a.TotalExpense, a.TotalRefund, a.Net)
		}
		br := tx.SendBatch(ctx, batch)
		for range aggregates {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return apperrors.NewAppError(500, "failed to insert aggregates for run "+m.RunID, err)
			}
		}
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to close aggregate batch for run "+m.RunID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindRunByID retrieves a run with its aggregate rows.
func (r *PgxRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.PipelineRun, error) {
	query := `SELECT ` + runColumns + ` FROM pipeline_runs WHERE run_id = $1;`

	m, err := scanRun(r.Pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find run "+runID, err)
	}

	aggregates, err := r.findAggregates(ctx, runID)
	if err != nil {
		return nil, err
	}

	run := mapping.ToDomainRun(m, aggregates)
	return &run, nil
}

// ListRuns retrieves runs newest first using token-based pagination.
// Aggregate rows are not loaded for listings.
func (r *PgxRunRepository) ListRuns(ctx context.Context, limit int, nextToken *string) (*domain.RunPage, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + runColumns + ` FROM pipeline_runs`
	orderByClause := `ORDER BY started_at DESC, run_id DESC`
	args := []interface{}{}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastStartedAt, lastRunID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, apperrors.NewAppError(400, "invalid nextToken", errors.Join(apperrors.ErrValidation, decodeErr))
		}
		query += ` WHERE (started_at, run_id) < ($1, $2)`
		args = append(args, lastStartedAt, lastRunID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pipeline runs", err)
	}
	defer rows.Close()

	runs := make([]domain.PipelineRun, 0, fetchLimit)
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pipeline run row", err)
		}
		runs = append(runs, mapping.ToDomainRun(m, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pipeline run rows", err)
	}

	page := &domain.RunPage{Runs: runs}
	if len(runs) > limit {
		// The token points to the last item included in this page.
		last := runs[limit-1]
		token := pagination.EncodeToken(last.StartedAt, last.RunID)
		page.NextToken = &token
		page.Runs = runs[:limit]
	}
	return page, nil
}

func (r *PgxRunRepository) findAggregates(ctx context.Context, runID string) ([]models.RunAggregate, error) {
	query := `
		SELECT run_id, department_id, year_month, total_income, total_expense, total_refund, net
		FROM run_aggregates
		WHERE run_id = $1
		ORDER BY department_id, year_month;
	`
	rows, err := r.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query aggregates for run "+runID, err)
	}
	defer rows.Close()

	var aggregates []models.RunAggregate
	for rows.Next() {
		var a models.RunAggregate
		if err := rows.Scan(&a.RunID, &a.DepartmentID, &a.YearMonth, &a.TotalIncome, &a.TotalExpense, &a.TotalRefund, &a.Net); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan aggregate row for run "+runID, err)
		}
		aggregates = append(aggregates, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating aggregate rows for run "+runID, err)
	}
	return aggregates, nil
}

func scanRun(row pgx.Row) (models.PipelineRun, error) {
	var m models.PipelineRun
	err := row.Scan(
		&m.RunID,
		&m.StartedAt,
		&m.FinishedAt,
		&m.Source,
		&m.Mode,
		&m.Decision,
		&m.InputRows,
		&m.CleanRows,
		&m.RejectedRows,
		&m.RejectionRate,
		&m.IncomeTotal,
		&m.ExpenseTotal,
		&m.RefundTotal,
		&m.NetTotal,
		&m.Departments,
		&m.Months,
	)
	return m, err
}
