package worker

import (
	"context"
	"encoding/json"
	"time"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/provision"
	"classroom-provisioner/internal/queue"
	"classroom-provisioner/internal/registry"
	"classroom-provisioner/internal/schedule"

	"github.com/rs/zerolog"
)

// ProvisionWorker consumes provisioning jobs and runs them one at a time.
// The engine assumes exclusive access to the store and platform during a
// run, so jobs are never executed concurrently.
type ProvisionWorker struct {
	cfg      *config.Config
	service  *provision.Service
	loader   *registry.Loader
	consumer *queue.Consumer
	log      zerolog.Logger
}

func NewProvisionWorker(
	cfg *config.Config,
	service *provision.Service,
	loader *registry.Loader,
	redisClient *queue.RedisClient,
) *ProvisionWorker {
	return &ProvisionWorker{
		cfg:      cfg,
		service:  service,
		loader:   loader,
		consumer: queue.NewConsumer(redisClient, cfg),
		log:      logger.Get(),
	}
}

func (w *ProvisionWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting provision worker")
	return w.consumer.ConsumeProvisionQueue(ctx, w.handleMessage)
}

func (w *ProvisionWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.ProvisionJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal provision job")
		return err
	}

	w.log.Info().
		Str("number", job.Number).
		Str("title", job.Title).
		Str("date", job.Date).
		Msg("Processing provision job")

	date, err := schedule.ParseLessonDate(job.Date, time.UTC)
	if err != nil {
		w.log.Error().Err(err).Msg("Invalid provision job")
		return err
	}

	lesson := model.LessonSpec{
		Number:    job.Number,
		Title:     job.Title,
		Date:      date,
		EventCode: job.EventCode,
		EventURL:  job.EventURL,
	}

	reg, err := w.loader.Load(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to load course registry")
		return err
	}

	return w.service.Run(ctx, lesson, reg)
}
