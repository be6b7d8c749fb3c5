package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"classroom-provisioner/internal/auth"
	"classroom-provisioner/internal/classroom"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/db"
	"classroom-provisioner/internal/drive"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/provision"
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

	log.Info().Str("version", cfg.App.Version).Msg("Starting provision worker")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize repository
	repo := db.NewRepository(database)

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

	// Provisioning engine
	service, err := provision.NewService(cfg, driveClient, driveClient, platform, repo, reports)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create provision service")
	}

	// Create provision worker
	provisionWorker := worker.NewProvisionWorker(cfg, service, loader, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := provisionWorker.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Provision worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down provision worker...")

	// Cancel context to stop worker
	cancel()

	log.Info().Msg("Provision worker exited")
}
