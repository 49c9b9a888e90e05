package main

import (
	"context"
	"fmt"

	"github.com/SscSPs/finance_batch_pipeline/internal/adapters/runstore"
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	"github.com/SscSPs/finance_batch_pipeline/internal/platform/config"
	"github.com/SscSPs/finance_batch_pipeline/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_batch_pipeline/pkg/database"
)

const (
	runStoreFile     = "file"
	runStorePostgres = "postgres"
)

// buildRepositories opens the configured run store. The returned cleanup must be called
// once the repositories are no longer used.
func buildRepositories(ctx context.Context, c *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	switch c.RunStore {
	case runStorePostgres:
		pool, err := database.NewPgxPool(ctx, c.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(ctx, pool) }, nil
	case runStoreFile, "":
		return portsrepo.RepositoryProvider{RunRepo: runstore.NewFileRunStore(c.MetricsDir)}, func() {}, nil
	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown run store %q", c.RunStore)
	}
}
