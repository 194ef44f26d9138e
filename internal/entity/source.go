package entity

import (
	"database/sql"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SourceType identifies which fetcher handles a source.
type SourceType string

const (
	SourceTypeReddit     SourceType = "reddit"
	SourceTypeHackerNews SourceType = "hackernews"
	SourceTypeRSS        SourceType = "rss"
)

// Source is a configured discussion origin.
type Source struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Type        SourceType     `gorm:"type:varchar(20);not null" json:"type"`
	Config      datatypes.JSON `json:"config"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	LastScraped sql.NullTime   `json:"last_scraped"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Source) TableName() string {
	return "sources"
}

// SourceConfig is the per-type configuration stored in Source.Config.
// Each fetcher reads only the keys it needs.
type SourceConfig struct {
	Subreddit    string `json:"subreddit,omitempty"`
	Sort         string `json:"sort,omitempty"`
	TopComments  int    `json:"top_comments,omitempty"`
	Tags         string `json:"tags,omitempty"`
	Query        string `json:"query,omitempty"`
	FeedURL      string `json:"feed_url,omitempty"`
	FetchContent bool   `json:"fetch_content,omitempty"`
}

// ParseConfig decodes the JSON config column.
func (s *Source) ParseConfig() (SourceConfig, error) {
	var cfg SourceConfig
	if len(s.Config) == 0 {
		return cfg, nil
	}
	err := json.Unmarshal(s.Config, &cfg)
	return cfg, err
}
