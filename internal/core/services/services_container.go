package services

import (
	portsrepo "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// tracker may be nil when analytics are disabled.
func NewServiceContainer(repos portsrepo.RepositoryProvider, tracker portssvc.EventTracker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Pipeline = NewPipelineService()

	options := []BatchServiceOption{}
	if repos.ArtifactRepo != nil {
		options = append(options, WithArtifactWriter(repos.ArtifactRepo))
	}
	if tracker != nil {
		options = append(options, WithEventTracker(tracker))
	}
	container.Batch = NewBatchService(container.Pipeline, repos.RunRepo, options...)

	return container
}
