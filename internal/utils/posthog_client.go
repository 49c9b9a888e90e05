// posthog_client.go provides a wrapper around the posthog.Client to make it easier to use and handle when its not initialized.
package utils

import (
	"github.com/posthog/posthog-go"
	"github.com/rs/zerolog"
)

// PosthogClientWrapper forwards events to PostHog when an API key was configured and drops them otherwise.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        zerolog.Logger
}

func InitializePosthogClient(apiKey string, logger zerolog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn().Msg("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{logger: logger}
	}
	logger.Info().Msg("Initializing posthog client")
	wrapper := PosthogClientWrapper{logger: logger}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize posthog client, events will be dropped")
		return &wrapper
	}
	wrapper.posthogClient = client
	return &wrapper
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctId string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	w.logger.Debug().Str("distinct_id", distinctId).Str("event", event).Interface("properties", properties).Msg("Enqueueing event")
	if err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties,
	}); err != nil {
		w.logger.Warn().Err(err).Str("event", event).Msg("Failed to enqueue posthog event")
	}
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to close posthog client")
	}
}
