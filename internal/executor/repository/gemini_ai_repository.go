package repository

import (
	"context"
	"fmt"
	"time"

	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type geminiCompleter struct {
	cfg            config.Gemini
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates an AIRepository backed by the Google Gemini API.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	c := &geminiCompleter{
		cfg:            cfg.Gemini,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}
	return newPromptAIRepository(c, log, cfg.Executor.MaxContentChars), nil
}

func (c *geminiCompleter) name() string {
	return "gemini"
}

func (c *geminiCompleter) complete(ctx context.Context, tier modelTier, prompt string, jsonOutput bool) (string, error) {
	model := c.cfg.AnalysisModel
	if tier == tierFilter {
		model = c.cfg.FilterModel
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	if c.cfg.MaxTokenPerMinute > 0 {
		tokenResp, err := c.genAiClient.Models.CountTokens(ctx, model, contents, nil)
		if err != nil {
			return "", fmt.Errorf("failed to count tokens: %w", err)
		}

		c.logger.Debug("Gemini token count",
			logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
			logger.IntField("remaining", c.tokenLimiter.GetRemaining()),
		)

		if err := c.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
			return "", fmt.Errorf("failed to wait for token limit: %w", err)
		}
		if int(tokenResp.TotalTokens) > c.cfg.MaxTokenPerMinute/2 {
			c.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", c.tokenLimiter.GetRemaining()))
		}
	}

	if err := c.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	var genCfg *genai.GenerateContentConfig
	if jsonOutput {
		genCfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := c.genAiClient.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		c.logger.Error("Failed to call Gemini API", logger.ErrorField(err), logger.StringField("model", model))
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}
	return text, nil
}
