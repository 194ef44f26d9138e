package repository

import (
	"context"
	"fmt"
	"time"

	"golang-idea-radar/pkg/common"

	"github.com/redis/go-redis/v9"
)

// RunControlRepository sets the cancel flag polled by the executor.
type RunControlRepository interface {
	RequestCancel(ctx context.Context, runID uint, ttl time.Duration) error
}

// NewRunControlRepository creates a Redis-backed run control repository.
func NewRunControlRepository(client *redis.Client) RunControlRepository {
	return &runControlRepository{client: client}
}

type runControlRepository struct {
	client *redis.Client
}

// RequestCancel sets the flag. The ttl bounds how long a flag for a lost run lingers.
func (r *runControlRepository) RequestCancel(ctx context.Context, runID uint, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", common.RedisKeyRunCancel, runID)
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cancel flag for run %d: %w", runID, err)
	}
	return nil
}
