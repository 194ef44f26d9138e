package strategy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

const hnItemURL = "https://news.ycombinator.com/item?id="

// HackerNewsStrategy queries the Algolia Hacker News search API.
type HackerNewsStrategy struct {
	client    *http.Client
	baseURL   string
	userAgent string
	logger    *logger.Logger
}

// NewHackerNewsStrategy creates a new HackerNewsStrategy.
func NewHackerNewsStrategy(cfg *config.Config, log *logger.Logger) SourceFetchStrategy {
	return &HackerNewsStrategy{
		client:    &http.Client{Timeout: cfg.Fetcher.Timeout},
		baseURL:   strings.TrimRight(cfg.Fetcher.HackerNewsBaseURL, "/"),
		userAgent: cfg.Fetcher.UserAgent,
		logger:    log,
	}
}

// GetType returns the source type this strategy handles.
func (s *HackerNewsStrategy) GetType() entity.SourceType {
	return entity.SourceTypeHackerNews
}

type hnSearchResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	StoryText   string `json:"story_text"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAtI  int64  `json:"created_at_i"`
}

// Fetch returns the newest stories matching the configured tags and query.
func (s *HackerNewsStrategy) Fetch(ctx context.Context, source *entity.Source, limit int) ([]dto.RawDiscussion, error) {
	cfg, err := source.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid hackernews config for %s: %w", source.Name, err)
	}
	tags := cfg.Tags
	if tags == "" {
		tags = "ask_hn"
	}

	params := url.Values{}
	params.Set("tags", tags)
	if cfg.Query != "" {
		params.Set("query", cfg.Query)
	}
	if limit > 0 {
		params.Set("hitsPerPage", strconv.Itoa(limit))
	}

	var resp hnSearchResponse
	searchURL := s.baseURL + "/search_by_date?" + params.Encode()
	if err := getJSON(ctx, s.client, s.userAgent, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch hackernews %s: %w", tags, err)
	}

	discussions := make([]dto.RawDiscussion, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if hit.ObjectID == "" || strings.TrimSpace(hit.Title) == "" {
			continue
		}
		if limit > 0 && len(discussions) >= limit {
			break
		}

		content, err := htmlToText(hit.StoryText)
		if err != nil {
			s.logger.Warn("Failed to parse story text", logger.ErrorField(err), logger.StringField("object_id", hit.ObjectID))
			content = hit.StoryText
		}
		if content == "" && hit.URL != "" {
			content = "Link: " + hit.URL
		}

		postedAt := time.Unix(hit.CreatedAtI, 0).UTC()
		discussions = append(discussions, dto.RawDiscussion{
			SourceID:      source.ID,
			URL:           hnItemURL + hit.ObjectID,
			ExternalID:    hit.ObjectID,
			Title:         hit.Title,
			Content:       content,
			Author:        hit.Author,
			Upvotes:       hit.Points,
			CommentsCount: hit.NumComments,
			PostedAt:      &postedAt,
		})
	}
	return discussions, nil
}

// htmlToText flattens an HTML fragment, keeping one paragraph per line.
func htmlToText(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	doc.Find("p, br").Each(func(_ int, sel *goquery.Selection) {
		sel.BeforeHtml("\n")
	})
	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = utils.SafeText(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
