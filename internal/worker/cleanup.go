package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"classroom-provisioner/internal/cleanup"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/queue"
	"classroom-provisioner/internal/registry"

	"github.com/rs/zerolog"
)

type CleanupWorker struct {
	cfg        *config.Config
	revoker    *cleanup.Revoker
	normalizer *cleanup.Normalizer
	loader     *registry.Loader
	consumer   *queue.Consumer
	log        zerolog.Logger
}

func NewCleanupWorker(
	cfg *config.Config,
	revoker *cleanup.Revoker,
	normalizer *cleanup.Normalizer,
	loader *registry.Loader,
	redisClient *queue.RedisClient,
) *CleanupWorker {
	return &CleanupWorker{
		cfg:        cfg,
		revoker:    revoker,
		normalizer: normalizer,
		loader:     loader,
		consumer:   queue.NewConsumer(redisClient, cfg),
		log:        logger.Get(),
	}
}

func (w *CleanupWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting cleanup worker")
	return w.consumer.ConsumeCleanupQueue(ctx, w.handleMessage)
}

func (w *CleanupWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.CleanupJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal cleanup job")
		return err
	}

	w.log.Info().Str("kind", string(job.Kind)).Msg("Processing cleanup job")

	reg, err := w.loader.Load(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to load course registry")
		return err
	}

	switch job.Kind {
	case model.CleanupKindPermissions:
		return w.revoker.Run(ctx, reg)
	case model.CleanupKindFilenames:
		// Renames are applied only when the job asks for it and the operator
		// config allows it; otherwise the pass runs dry.
		apply := job.Apply && w.cfg.Cleanup.ApplyRenames
		if job.Apply && !apply {
			w.log.Warn().Msg("Rename apply requested but disabled by config, running dry")
		}
		return w.normalizer.Run(ctx, reg, apply)
	default:
		return fmt.Errorf("unknown cleanup kind %q", job.Kind)
	}
}
