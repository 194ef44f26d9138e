package repository

import (
	"context"
	"fmt"
	"time"

	"golang-idea-radar/pkg/common"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the claim only when it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ClaimRepository coordinates exclusive processing of a discussion across concurrent runs.
type ClaimRepository interface {
	Acquire(ctx context.Context, discussionID uint, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, discussionID uint, owner string) error
}

// NewClaimRepository creates a Redis-backed claim repository.
func NewClaimRepository(client *redis.Client) ClaimRepository {
	return &claimRepository{client: client}
}

type claimRepository struct {
	client *redis.Client
}

func claimKey(discussionID uint) string {
	return fmt.Sprintf("%s%d", common.RedisKeyDiscussionClaim, discussionID)
}

// Acquire sets the claim if nobody holds it. The TTL bounds how long a crashed owner blocks others.
func (r *claimRepository) Acquire(ctx context.Context, discussionID uint, owner string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, claimKey(discussionID), owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire claim for discussion %d: %w", discussionID, err)
	}
	return ok, nil
}

// Release drops the claim if owner still holds it.
func (r *claimRepository) Release(ctx context.Context, discussionID uint, owner string) error {
	if err := releaseScript.Run(ctx, r.client, []string{claimKey(discussionID)}, owner).Err(); err != nil {
		return fmt.Errorf("failed to release claim for discussion %d: %w", discussionID, err)
	}
	return nil
}
