package dto

import "time"

// RawDiscussion is a fetched candidate before deduplication.
type RawDiscussion struct {
	SourceID      uint
	URL           string
	ExternalID    string
	Title         string
	Content       string
	Author        string
	Upvotes       int
	CommentsCount int
	PostedAt      *time.Time
}

// SearchResult is one competitor search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}
