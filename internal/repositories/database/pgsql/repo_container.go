package pgsql

import (
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres-backed repositories. Artifacts stay on disk,
// so the caller sets ArtifactRepo.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RunRepo: newPgxRunRepository(dbPool),
	}
}
