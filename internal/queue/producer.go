package queue

import (
	"context"
	"encoding/json"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/model"

	"github.com/go-redis/redis/v8"
)

type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueProvisionJob(ctx context.Context, job model.ProvisionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.ProvisionQueue, data).Err()
}

func (p *Producer) EnqueueCleanupJob(ctx context.Context, job model.CleanupJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.CleanupQueue, data).Err()
}
