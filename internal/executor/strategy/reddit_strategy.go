package strategy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"
)

const defaultTopComments = 5

// RedditStrategy reads a subreddit listing through the public JSON endpoints.
type RedditStrategy struct {
	client    *http.Client
	baseURL   string
	userAgent string
	logger    *logger.Logger
}

// NewRedditStrategy creates a new RedditStrategy.
func NewRedditStrategy(cfg *config.Config, log *logger.Logger) SourceFetchStrategy {
	return &RedditStrategy{
		client:    &http.Client{Timeout: cfg.Fetcher.Timeout},
		baseURL:   strings.TrimRight(cfg.Fetcher.RedditBaseURL, "/"),
		userAgent: cfg.Fetcher.UserAgent,
		logger:    log,
	}
}

// GetType returns the source type this strategy handles.
func (s *RedditStrategy) GetType() entity.SourceType {
	return entity.SourceTypeReddit
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data redditThingData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditThingData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Body        string  `json:"body"`
	Permalink   string  `json:"permalink"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

// Fetch returns up to limit non-stickied posts with their top comments appended to the body.
func (s *RedditStrategy) Fetch(ctx context.Context, source *entity.Source, limit int) ([]dto.RawDiscussion, error) {
	cfg, err := source.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid reddit config for %s: %w", source.Name, err)
	}
	if cfg.Subreddit == "" {
		return nil, fmt.Errorf("reddit source %s has no subreddit", source.Name)
	}
	sort := cfg.Sort
	if sort == "" {
		sort = "hot"
	}
	topComments := cfg.TopComments
	if topComments <= 0 {
		topComments = defaultTopComments
	}

	listingURL := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", s.baseURL, url.PathEscape(cfg.Subreddit), sort, limit)
	var listing redditListing
	if err := getJSON(ctx, s.client, s.userAgent, listingURL, &listing); err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", cfg.Subreddit, err)
	}

	var discussions []dto.RawDiscussion
	for _, child := range listing.Data.Children {
		if !utils.ShouldContinue(ctx, s.logger) {
			return discussions, ctx.Err()
		}
		post := child.Data
		if post.Stickied || post.ID == "" {
			continue
		}
		if limit > 0 && len(discussions) >= limit {
			break
		}

		content := strings.TrimSpace(post.Selftext)
		comments, err := s.fetchTopComments(ctx, post.ID, topComments)
		if err != nil {
			// comments are enrichment only
			s.logger.Warn("Failed to fetch reddit comments", logger.ErrorField(err), logger.StringField("post_id", post.ID))
		} else if len(comments) > 0 {
			content = content + "\n\nTop comments:\n- " + strings.Join(comments, "\n- ")
		}

		postedAt := time.Unix(int64(post.CreatedUTC), 0).UTC()
		discussions = append(discussions, dto.RawDiscussion{
			SourceID:      source.ID,
			URL:           "https://reddit.com" + post.Permalink,
			ExternalID:    post.ID,
			Title:         post.Title,
			Content:       strings.TrimSpace(content),
			Author:        post.Author,
			Upvotes:       post.Score,
			CommentsCount: post.NumComments,
			PostedAt:      &postedAt,
		})
	}
	return discussions, nil
}

func (s *RedditStrategy) fetchTopComments(ctx context.Context, postID string, n int) ([]string, error) {
	commentsURL := fmt.Sprintf("%s/comments/%s.json?sort=top&limit=%d&depth=1", s.baseURL, url.PathEscape(postID), n)
	// the endpoint returns [post listing, comment listing]
	var listings []redditListing
	if err := getJSON(ctx, s.client, s.userAgent, commentsURL, &listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var comments []string
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		body := strings.TrimSpace(child.Data.Body)
		if body == "" || body == "[deleted]" || body == "[removed]" {
			continue
		}
		comments = append(comments, utils.SafeText(body))
		if len(comments) >= n {
			break
		}
	}
	return comments, nil
}
