package entity

import (
	"database/sql"
	"time"
)

// Discussion is one ingested thread. Only PassedFilter and IsAnalyzed change after creation.
type Discussion struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	SourceID      uint         `gorm:"not null;index" json:"source_id"`
	URL           string       `gorm:"uniqueIndex;not null" json:"url"`
	ExternalID    string       `gorm:"type:varchar(100)" json:"external_id"`
	Title         string       `gorm:"not null" json:"title"`
	Content       string       `json:"content"`
	Author        string       `gorm:"type:varchar(100)" json:"author"`
	Upvotes       int          `gorm:"not null;default:0" json:"upvotes"`
	CommentsCount int          `gorm:"not null;default:0" json:"comments_count"`
	PostedAt      sql.NullTime `json:"posted_at"`
	ScrapedAt     time.Time    `gorm:"autoCreateTime" json:"scraped_at"`
	PassedFilter  *bool        `json:"passed_filter"`
	FilteredAt    sql.NullTime `json:"filtered_at"`
	IsAnalyzed    bool         `gorm:"not null;default:false" json:"is_analyzed"`

	Source *Source `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}

func (Discussion) TableName() string {
	return "discussions"
}
