package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"compsite/config"
	"compsite/database"
	"compsite/handlers/competitions"
	"compsite/handlers/images"
	"compsite/middleware"
	"compsite/realtime"
	"compsite/routes"
	"compsite/services"
	"compsite/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := zap.L()
	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.InitDB(); err != nil {
		return err
	}
	defer database.Close()

	blobs, err := newBlobStore(ctx)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logger.Named("realtime"))
	go hub.Run(ctx)

	middleware.UpdateSystemMetrics(ctx, 15*time.Second)

	rateLimiter := middleware.NewRateLimiter(config.RateLimitPerMinute, config.RateLimitBurst)
	go sweepVisitors(ctx, rateLimiter)

	service := &services.CompetitionService{
		Store:     database.NewCompetitionRepository(database.DB),
		Images:    blobs,
		Publisher: hub,
		Logger:    logger.Named("competitions"),
	}

	router := routes.NewRouter(routes.Options{
		Logger:      logger.Named("http"),
		CorsOrigins: config.CorsOrigins,
		Competitions: &competitions.Handler{
			Service:        service,
			Hub:            hub,
			MaxUploadBytes: config.MaxUploadBytes,
			Logger:         logger.Named("competitions"),
		},
		Images:      &images.Handler{Service: service, Logger: logger.Named("images")},
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:              ":" + config.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr), zap.String("blob_backend", config.BlobBackend))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// newBlobStore connects the configured image store
func newBlobStore(ctx context.Context) (storage.BlobStore, error) {
	switch config.BlobBackend {
	case "redis":
		if err := database.InitRedis(ctx); err != nil {
			return nil, err
		}
		return storage.NewRedisBlobStore(database.REDIS, "compsite:blob:"), nil
	case "s3":
		return storage.NewS3BlobStore(ctx, storage.S3Config{
			Endpoint:  config.S3Endpoint,
			AccessKey: config.S3AccessKey,
			SecretKey: config.S3SecretKey,
			Bucket:    config.S3Bucket,
			UseSSL:    config.S3UseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported blob backend %q", config.BlobBackend)
	}
}

func sweepVisitors(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}
