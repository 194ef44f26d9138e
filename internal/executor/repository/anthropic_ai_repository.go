package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/pkg/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

type anthropicCompleter struct {
	client         anthropic.Client
	cfg            config.Anthropic
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewAnthropicAIRepository creates an AIRepository backed by the Anthropic Messages API.
// Extra request options (base URL, retries) are mainly used by tests.
func NewAnthropicAIRepository(cfg *config.Config, log *logger.Logger, opts ...option.RequestOption) (AIRepository, error) {
	if cfg.Anthropic.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is not configured")
	}
	requestOpts := append([]option.RequestOption{option.WithAPIKey(cfg.Anthropic.APIKey)}, opts...)

	interval := time.Minute / time.Duration(cfg.Anthropic.MaxRequestPerMinute)
	c := &anthropicCompleter{
		client:         anthropic.NewClient(requestOpts...),
		cfg:            cfg.Anthropic,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(interval), 1),
	}
	return newPromptAIRepository(c, log, cfg.Executor.MaxContentChars), nil
}

func (c *anthropicCompleter) name() string {
	return "anthropic"
}

func (c *anthropicCompleter) complete(ctx context.Context, tier modelTier, prompt string, _ bool) (string, error) {
	model := c.cfg.AnalysisModel
	maxTokens := c.cfg.MaxTokens
	if tier == tierFilter {
		model = c.cfg.FilterModel
		maxTokens = 100
	}

	if err := c.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	start := time.Now()
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages api call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	c.logger.Debug("Anthropic response",
		logger.StringField("model", model),
		logger.IntField("input_tokens", int(response.Usage.InputTokens)),
		logger.IntField("output_tokens", int(response.Usage.OutputTokens)),
		logger.Field("latency", time.Since(start)),
	)

	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return text.String(), nil
}
