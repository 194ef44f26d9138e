package config

import (
	"time"

	"golang-idea-radar/pkg/config"
)

// Executor holds pipeline execution settings.
type Executor struct {
	MaxConcurrentRuns  int           `mapstructure:"max_concurrent_runs"`
	WorkerConcurrency  int           `mapstructure:"worker_concurrency"`
	ItemTimeout        time.Duration `mapstructure:"item_timeout"`
	RunTimeout         time.Duration `mapstructure:"run_timeout"`
	ClaimTTL           time.Duration `mapstructure:"claim_ttl"`
	FilterTimeout      time.Duration `mapstructure:"filter_timeout"`
	MaxContentChars    int           `mapstructure:"max_content_chars"`
	DigestMinScore     int           `mapstructure:"digest_min_score"`
	StreamBlockTimeout time.Duration `mapstructure:"stream_block_timeout"`
	RetryInterval      time.Duration `mapstructure:"retry_interval"`
	RetryMinIdle       time.Duration `mapstructure:"retry_min_idle"`
}

// Anthropic holds the configuration for the Anthropic Messages API.
type Anthropic struct {
	APIKey              string `mapstructure:"api_key"`
	FilterModel         string `mapstructure:"filter_model"`
	AnalysisModel       string `mapstructure:"analysis_model"`
	MaxTokens           int64  `mapstructure:"max_tokens"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	FilterModel         string `mapstructure:"filter_model"`
	AnalysisModel       string `mapstructure:"analysis_model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI selects the model provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Tavily holds the competitor search configuration.
type Tavily struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	MaxResults          int           `mapstructure:"max_results"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// Fetcher holds the HTTP settings shared by source fetchers.
type Fetcher struct {
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RedditBaseURL     string        `mapstructure:"reddit_base_url"`
	HackerNewsBaseURL string        `mapstructure:"hackernews_base_url"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// SeedSource is a source created at boot when no source with that name exists.
type SeedSource struct {
	Name     string                 `mapstructure:"name"`
	Type     string                 `mapstructure:"type"`
	IsActive bool                   `mapstructure:"is_active"`
	Config   map[string]interface{} `mapstructure:"config"`
}

// Config holds the full configuration for the executor service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	Executor  Executor        `mapstructure:"executor"`
	AI        AI              `mapstructure:"ai"`
	Anthropic Anthropic       `mapstructure:"anthropic"`
	Gemini    Gemini          `mapstructure:"gemini"`
	Tavily    Tavily          `mapstructure:"tavily"`
	Fetcher   Fetcher         `mapstructure:"fetcher"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Sources   []SeedSource    `mapstructure:"sources"`
}

// Load loads the executor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Executor.MaxConcurrentRuns <= 0 {
		c.Executor.MaxConcurrentRuns = 2
	}
	if c.Executor.WorkerConcurrency <= 0 {
		c.Executor.WorkerConcurrency = 4
	}
	if c.Executor.ItemTimeout <= 0 {
		c.Executor.ItemTimeout = 3 * time.Minute
	}
	if c.Executor.RunTimeout <= 0 {
		c.Executor.RunTimeout = 2 * time.Hour
	}
	if c.Executor.ClaimTTL <= 0 {
		c.Executor.ClaimTTL = 10 * time.Minute
	}
	if c.Executor.FilterTimeout <= 0 {
		c.Executor.FilterTimeout = 30 * time.Second
	}
	if c.Executor.MaxContentChars <= 0 {
		c.Executor.MaxContentChars = 6000
	}
	if c.Executor.DigestMinScore <= 0 {
		c.Executor.DigestMinScore = 70
	}
	if c.Executor.StreamBlockTimeout <= 0 {
		c.Executor.StreamBlockTimeout = 2 * time.Second
	}
	if c.Executor.RetryInterval <= 0 {
		c.Executor.RetryInterval = time.Minute
	}
	if c.Executor.RetryMinIdle <= 0 {
		c.Executor.RetryMinIdle = c.Executor.RunTimeout + 5*time.Minute
	}
	if c.Anthropic.FilterModel == "" {
		c.Anthropic.FilterModel = "claude-3-haiku-20240307"
	}
	if c.Anthropic.AnalysisModel == "" {
		c.Anthropic.AnalysisModel = "claude-sonnet-4-5-20250929"
	}
	if c.Anthropic.MaxTokens <= 0 {
		c.Anthropic.MaxTokens = 4096
	}
	if c.Anthropic.MaxRequestPerMinute <= 0 {
		c.Anthropic.MaxRequestPerMinute = 50
	}
	if c.Gemini.FilterModel == "" {
		c.Gemini.FilterModel = "gemini-2.0-flash-lite"
	}
	if c.Gemini.AnalysisModel == "" {
		c.Gemini.AnalysisModel = "gemini-2.5-flash"
	}
	if c.Gemini.MaxRequestPerMinute <= 0 {
		c.Gemini.MaxRequestPerMinute = 15
	}
	if c.Tavily.BaseURL == "" {
		c.Tavily.BaseURL = "https://api.tavily.com"
	}
	if c.Tavily.MaxResults <= 0 {
		c.Tavily.MaxResults = 5
	}
	if c.Tavily.MaxRequestPerMinute <= 0 {
		c.Tavily.MaxRequestPerMinute = 60
	}
	if c.Tavily.CacheTTL <= 0 {
		c.Tavily.CacheTTL = time.Hour
	}
	if c.Tavily.Timeout <= 0 {
		c.Tavily.Timeout = 20 * time.Second
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = "idea-radar/1.0"
	}
	if c.Fetcher.Timeout <= 0 {
		c.Fetcher.Timeout = 30 * time.Second
	}
	if c.Fetcher.RedditBaseURL == "" {
		c.Fetcher.RedditBaseURL = "https://www.reddit.com"
	}
	if c.Fetcher.HackerNewsBaseURL == "" {
		c.Fetcher.HackerNewsBaseURL = "https://hn.algolia.com/api/v1"
	}
}
