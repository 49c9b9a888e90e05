package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/adapters/csvio"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/services"
	"github.com/SscSPs/finance_batch_pipeline/internal/handlers"
	"github.com/SscSPs/finance_batch_pipeline/internal/middleware"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils"
	"github.com/SscSPs/finance_batch_pipeline/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the batch and run API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if cfg.UsesDefaultJWTSecret() {
		if cfg.IsProduction {
			return errors.New("JWT_SECRET must be set in production")
		}
		log.Warn().Msg("JWT_SECRET is not set, using the built-in development secret")
	}

	if cfg.RunStore == runStorePostgres {
		if _, err := database.RunMigrations(ctx, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	repos, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	repos.ArtifactRepo = csvio.NewPerRunArtifactStore(cfg.ProcessedDir, cfg.GoldDir)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, log)
	defer posthogClient.Close()

	container := services.NewServiceContainer(repos, posthogClient)

	limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}

	r.Use(
		middleware.StructuredLoggingMiddleware(log),
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.RateLimit(limiterInstance),
	)

	handlers.RegisterRoutes(r, cfg, container, posthogClient)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exited")
	return nil
}
