package services

import (
	"context"

	"github.com/SscSPs/finance_batch_pipeline/internal/logger"
	"github.com/rs/zerolog"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) zerolog.Logger {
	return logger.FromContext(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	l := s.GetLogger(ctx)
	l.Error().Err(err).Fields(keyvals).Msg(msg)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	l := s.GetLogger(ctx)
	l.Warn().Fields(keyvals).Msg(msg)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	l := s.GetLogger(ctx)
	l.Info().Fields(keyvals).Msg(msg)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	l := s.GetLogger(ctx)
	l.Debug().Fields(keyvals).Msg(msg)
}

// withRunLogger returns a context whose logger carries the run id.
func withRunLogger(ctx context.Context, runID string) context.Context {
	l := logger.FromContext(ctx).With().Str("run_id", runID).Logger()
	return logger.WithContext(ctx, l)
}
