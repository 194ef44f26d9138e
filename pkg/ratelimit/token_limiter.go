package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// TokenLimiter budgets model tokens per minute. A request costs as many limiter
// events as it has tokens, refilled continuously at a sixtieth of the budget per second.
type TokenLimiter struct {
	limiter  *rate.Limiter
	capacity int
	now      func() time.Time
}

// NewTokenLimiter creates a limiter allowing maxTokensPerMinute tokens per minute.
// A non-positive limit disables limiting.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	l := &TokenLimiter{capacity: maxTokensPerMinute, now: time.Now}
	if maxTokensPerMinute > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(float64(maxTokensPerMinute)/60), maxTokensPerMinute)
	}
	return l
}

// Wait blocks until the requested amount of tokens is available or ctx is done.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if l.limiter == nil || tokens <= 0 {
		return nil
	}

	now := l.now()
	r := l.limiter.ReserveN(now, tokens)
	if !r.OK() {
		return fmt.Errorf("request of %d tokens exceeds limit of %d per minute", tokens, l.capacity)
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.CancelAt(l.now())
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetRemaining returns the tokens currently available.
func (l *TokenLimiter) GetRemaining() int {
	if l.limiter == nil {
		return 0
	}
	return int(l.limiter.TokensAt(l.now()))
}
