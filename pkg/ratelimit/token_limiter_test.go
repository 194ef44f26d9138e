package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_ConsumesAndRefills(t *testing.T) {
	current := time.Unix(1_700_000_000, 0)
	l := NewTokenLimiter(600)
	l.now = func() time.Time { return current }

	require.NoError(t, l.Wait(context.Background(), 500))
	assert.Equal(t, 100, l.GetRemaining())

	current = current.Add(10 * time.Second) // 10 tokens per second
	assert.Equal(t, 200, l.GetRemaining())

	current = current.Add(time.Hour)
	assert.Equal(t, 600, l.GetRemaining(), "refill is capped at capacity")
}

func TestTokenLimiter_RejectsOversizedRequest(t *testing.T) {
	l := NewTokenLimiter(100)
	err := l.Wait(context.Background(), 101)
	assert.Error(t, err)
}

func TestTokenLimiter_WaitHonoursContext(t *testing.T) {
	l := NewTokenLimiter(60)
	require.NoError(t, l.Wait(context.Background(), 60))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx, 30)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenLimiter_CancelledWaitReturnsTokens(t *testing.T) {
	current := time.Unix(1_700_000_000, 0)
	l := NewTokenLimiter(60)
	l.now = func() time.Time { return current }

	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 0, l.GetRemaining())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx, 30), context.Canceled)
	assert.Equal(t, 0, l.GetRemaining(), "the cancelled reservation is handed back")
}

func TestTokenLimiter_DisabledWhenZero(t *testing.T) {
	l := NewTokenLimiter(0)
	assert.NoError(t, l.Wait(context.Background(), 1_000_000))
}
