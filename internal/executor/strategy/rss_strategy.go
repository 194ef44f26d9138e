package strategy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// RSSStrategy reads RSS and Atom feeds.
type RSSStrategy struct {
	client    *http.Client
	userAgent string
	logger    *logger.Logger
}

// NewRSSStrategy creates a new RSSStrategy.
func NewRSSStrategy(cfg *config.Config, log *logger.Logger) SourceFetchStrategy {
	return &RSSStrategy{
		client:    &http.Client{Timeout: cfg.Fetcher.Timeout},
		userAgent: cfg.Fetcher.UserAgent,
		logger:    log,
	}
}

// GetType returns the source type this strategy handles.
func (s *RSSStrategy) GetType() entity.SourceType {
	return entity.SourceTypeRSS
}

// Fetch returns the newest feed items. With fetch_content set, the linked page is
// downloaded and reduced to its readable text.
func (s *RSSStrategy) Fetch(ctx context.Context, source *entity.Source, limit int) ([]dto.RawDiscussion, error) {
	cfg, err := source.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid rss config for %s: %w", source.Name, err)
	}
	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("rss source %s has no feed_url", source.Name)
	}

	fp := gofeed.NewParser()
	fp.UserAgent = s.userAgent
	fp.Client = s.client
	feed, err := fp.ParseURLWithContext(cfg.FeedURL, ctx)
	if err != nil {
		s.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("feed_url", cfg.FeedURL))
		return nil, fmt.Errorf("failed to parse feed %s: %w", cfg.FeedURL, err)
	}

	sort.SliceStable(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	var discussions []dto.RawDiscussion
	for _, item := range feed.Items {
		if !utils.ShouldContinue(ctx, s.logger) {
			return discussions, ctx.Err()
		}
		if limit > 0 && len(discussions) >= limit {
			break
		}
		if item.Link == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}
		content, err := htmlToText(body)
		if err != nil {
			content = utils.SafeText(body)
		}

		if cfg.FetchContent {
			fetched, err := s.fetchReadableContent(ctx, item.Link)
			if err != nil {
				s.logger.Warn("Failed to fetch article content, using feed summary", logger.ErrorField(err), logger.StringField("url", item.Link))
			} else if fetched != "" {
				content = fetched
			}
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		discussions = append(discussions, dto.RawDiscussion{
			SourceID:   source.ID,
			URL:        item.Link,
			ExternalID: item.GUID,
			Title:      item.Title,
			Content:    content,
			Author:     author,
			PostedAt:   item.PublishedParsed,
		})
	}
	return discussions, nil
}

func (s *RSSStrategy) fetchReadableContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse content: %w", err)
	}
	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse content: %w", err)
	}
	return utils.SafeText(docHTML.Text()), nil
}
