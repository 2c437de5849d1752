package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/api"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/audit"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/config"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/face"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/metrics"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting emotion detection service",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("backend", cfg.AnalyzerBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := face.NewEmotionAnalyzer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	emotionMetrics, err := metrics.NewEmotionMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	decoder := frame.NewDecoder(frame.Options{
		AutoOrient:   cfg.ImageAutoOrient,
		MaxDimension: cfg.ImageMaxDimension,
		MaxPixels:    cfg.ImageMaxPixels,
	})

	emotionService := service.NewEmotionService(analyzer, decoder, logger).
		WithMetrics(emotionMetrics).
		WithAuditLogger(audit.NewSlogLogger(logger))

	addr := fmt.Sprintf(":%d", cfg.Port)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Service:        emotionService,
		Metrics:        emotionMetrics,
		BodyLimit:      cfg.BodyLimit(),
		RequestTimeout: cfg.RequestTimeout,
		SwaggerHost:    fmt.Sprintf("localhost:%d", cfg.Port),
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", addr),
			slog.String("analyzer", analyzer.Name()),
		)
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")

	return nil
}
