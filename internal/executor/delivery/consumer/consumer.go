package consumer

import (
	"context"
	"sync"
	"time"

	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/service"
	"golang-idea-radar/pkg/common"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"
)

// RedisConsumer manages the consumption of run tasks from the Redis stream.
type RedisConsumer struct {
	cfg             *config.Config
	executorService service.ExecutorService
	logger          *logger.Logger
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, executorService service.ExecutorService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:             cfg,
		executorService: executorService,
		logger:          log,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the consumer's task processing loops.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.executorService.ProcessTask, common.RedisStreamRunExecution)
	c.RegisterTickerHandler(ctx, c.executorService.ProcessRetries, c.cfg.Executor.RetryInterval, common.RedisStreamRunExecution+"-retry")
}

// RegisterStreamHandler calls fn in a loop until the consumer stops. fn is expected to block
// for at most the stream read timeout.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string) {
	c.logger.Info("Registering stream handler", logger.StringField("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Stream handler stopping due to context cancellation", logger.StringField("stream", streamName))
				return
			case <-c.stopChan:
				c.logger.Info("Stream handler stopping", logger.StringField("stream", streamName))
				return
			default:
				utils.RunSafe(c.logger, func() { fn(ctx) })
			}
		}
	})
}

// RegisterTickerHandler calls fn on every tick until the consumer stops.
func (c *RedisConsumer) RegisterTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, name string) {
	c.logger.Info("Registering ticker handler", logger.StringField("name", name), logger.Field("interval", interval))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				utils.RunSafe(c.logger, func() { fn(ctx) })
			case <-ctx.Done():
				c.logger.Info("Ticker handler stopping due to context cancellation", logger.StringField("name", name))
				return
			case <-c.stopChan:
				c.logger.Info("Ticker handler stopping", logger.StringField("name", name))
				return
			}
		}
	})
}

// Stop stops reading new tasks and waits for the runs in flight to finish.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.executorService.Wait()
	c.logger.Info("Redis consumer stopped")
}
