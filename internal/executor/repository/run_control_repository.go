package repository

import (
	"context"
	"fmt"

	"golang-idea-radar/pkg/common"

	"github.com/redis/go-redis/v9"
)

// RunControlRepository reads the cancel flag set through the API.
type RunControlRepository interface {
	IsCancelled(ctx context.Context, runID uint) (bool, error)
	Clear(ctx context.Context, runID uint) error
}

// NewRunControlRepository creates a Redis-backed run control repository.
func NewRunControlRepository(client *redis.Client) RunControlRepository {
	return &runControlRepository{client: client}
}

type runControlRepository struct {
	client *redis.Client
}

// IsCancelled reports whether a cancel was requested for the run.
func (r *runControlRepository) IsCancelled(ctx context.Context, runID uint) (bool, error) {
	n, err := r.client.Exists(ctx, fmt.Sprintf("%s%d", common.RedisKeyRunCancel, runID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read cancel flag for run %d: %w", runID, err)
	}
	return n > 0, nil
}

// Clear removes the cancel flag once the run is terminal.
func (r *runControlRepository) Clear(ctx context.Context, runID uint) error {
	return r.client.Del(ctx, fmt.Sprintf("%s%d", common.RedisKeyRunCancel, runID)).Err()
}
