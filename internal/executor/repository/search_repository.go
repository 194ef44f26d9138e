package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrSearchUnavailable means competitor search is not configured or the provider refused the request.
var ErrSearchUnavailable = errors.New("competitor search unavailable")

// SearchRepository runs competitor web searches.
type SearchRepository interface {
	Search(ctx context.Context, query string) ([]dto.SearchResult, error)
}

type tavilySearchRepository struct {
	client         *http.Client
	cfg            config.Tavily
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	cache          *cache.Cache
}

// NewTavilySearchRepository creates a SearchRepository backed by the Tavily search API.
func NewTavilySearchRepository(cfg *config.Config, log *logger.Logger) SearchRepository {
	interval := time.Minute / time.Duration(cfg.Tavily.MaxRequestPerMinute)
	return &tavilySearchRepository{
		client:         &http.Client{Timeout: cfg.Tavily.Timeout},
		cfg:            cfg.Tavily,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(interval), 1),
		cache:          cache.New(cfg.Tavily.CacheTTL, 2*cfg.Tavily.CacheTTL),
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []dto.SearchResult `json:"results"`
}

// Search returns up to max_results hits for query. Results are cached per query.
func (r *tavilySearchRepository) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	if r.cfg.APIKey == "" {
		return nil, ErrSearchUnavailable
	}
	query = strings.TrimSpace(query)
	if cached, ok := r.cache.Get(query); ok {
		return cached.([]dto.SearchResult), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload, err := json.Marshal(tavilyRequest{Query: query, SearchDepth: "basic", MaxResults: r.cfg.MaxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(r.cfg.BaseURL, "/")+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send search request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == 432:
		return nil, fmt.Errorf("tavily status %d: %w", resp.StatusCode, ErrSearchUnavailable)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tavily status %d: %s", resp.StatusCode, string(body))
	}

	var out tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	r.cache.Set(query, out.Results, cache.DefaultExpiration)
	r.logger.Debug("Competitor search", logger.StringField("query", query), logger.IntField("results", len(out.Results)))
	return out.Results, nil
}
