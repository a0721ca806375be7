package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/petshop-scheduler/internal/config"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/routes"
	"github.com/BruksfildServices01/petshop-scheduler/internal/storage"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on start")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, db, err := bootstrap(skipMigrate)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer closeDB(db)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	dispatcher := audit.NewDispatcher(audit.New(db))
	defer dispatcher.Close()

	statsCache := newStatsCache(ctx, cfg, logger)
	defer statsCache.Close()

	photos, err := newPhotoStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("photo store: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Audit:   dispatcher,
		Cache:   statsCache,
		Photos:  photos,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newStatsCache prefers Redis and falls back to memory when it is not
// configured or not reachable.
func newStatsCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.RedisURL == "" {
		return cache.NewMemory()
	}

	rs, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-memory stats cache", "error", err)
		return cache.NewMemory()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, using in-memory stats cache", "error", err)
		_ = rs.Close()
		return cache.NewMemory()
	}

	logger.Info("stats cache: redis")
	return rs
}

func newPhotoStore(cfg *config.Config, logger *slog.Logger) (storage.PhotoStore, error) {
	if !cfg.S3.Enabled() {
		logger.Warn("S3_BUCKET not set, pet photos are kept in memory")
		return storage.NewMemory(), nil
	}

	s, err := storage.NewS3(cfg.S3)
	if err != nil {
		return nil, err
	}
	logger.Info("photo store: s3", "bucket", cfg.S3.Bucket)
	return s, nil
}
