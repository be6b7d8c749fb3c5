package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"classroom-provisioner/internal/auth"
	"classroom-provisioner/internal/classroom"
	"classroom-provisioner/internal/cleanup"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/drive"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/queue"
	"classroom-provisioner/internal/registry"
	"classroom-provisioner/internal/report"
	"classroom-provisioner/internal/storage"
	"classroom-provisioner/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting cleanup worker")

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize S3 storage for pass reports
	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
	}
	reports := report.NewWriter(s3Storage)

	// Remote clients
	authManager := auth.NewManager(cfg)
	driveClient := drive.NewClient(cfg, authManager)
	platform := classroom.NewClient(cfg, authManager)

	// Registry loader
	loader := registry.NewLoader(cfg)

	// Cleanup passes
	revoker := cleanup.NewRevoker(cfg, driveClient, reports)
	normalizer := cleanup.NewNormalizer(cfg, driveClient, platform, reports)

	// Create cleanup worker
	cleanupWorker := worker.NewCleanupWorker(cfg, revoker, normalizer, loader, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := cleanupWorker.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Cleanup worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down cleanup worker...")

	// Cancel context to stop worker
	cancel()

	log.Info().Msg("Cleanup worker exited")
}
