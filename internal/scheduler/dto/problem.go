package dto

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Sort orders accepted by the problem list.
const (
	SortByScore      = "score"
	SortByDate       = "date"
	SortBySeverity   = "severity"
	SortByEngagement = "engagement"
)

// ProblemFilter holds the parsed list query.
type ProblemFilter struct {
	Status          string
	IsStarred       *bool
	MinScore        *int
	Tags            []string
	AudienceType    string
	AnalysisTier    string
	SourceType      string
	DateFrom        *time.Time
	DateTo          *time.Time
	IncludeArchived bool
	SortBy          string
	Skip            int
	Limit           int
}

// DiscussionSummary is the discussion block embedded in problem views.
type DiscussionSummary struct {
	ID            uint   `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Upvotes       int    `json:"upvotes"`
	CommentsCount int    `json:"comments_count"`
	SourceName    string `json:"source_name"`
	SourceType    string `json:"source_type"`
}

// ProblemListItem is one card in a list response.
type ProblemListItem struct {
	ID               uint              `json:"id"`
	ProblemStatement string            `json:"problem_statement"`
	Severity         *int              `json:"severity"`
	TargetAudience   string            `json:"target_audience"`
	AudienceType     string            `json:"audience_type"`
	OverallScore     *int              `json:"overall_score"`
	MarketScore      *int              `json:"market_score"`
	AnalysisTier     string            `json:"analysis_tier"`
	IdeasCount       int               `json:"ideas_count"`
	Discussion       DiscussionSummary `json:"discussion"`
	ExtractedAt      time.Time         `json:"extracted_at"`
	CardStatus       string            `json:"card_status"`
	IsStarred        bool              `json:"is_starred"`
	ViewCount        int               `json:"view_count"`
	UserTags         []string          `json:"user_tags"`
	FirstViewedAt    sql.NullTime      `json:"first_viewed_at" swaggertype:"string" format:"date-time"`
	LastViewedAt     sql.NullTime      `json:"last_viewed_at" swaggertype:"string" format:"date-time"`
	ArchivedAt       sql.NullTime      `json:"archived_at" swaggertype:"string" format:"date-time"`
}

// IdeaSummary is one startup idea in the detail view.
type IdeaSummary struct {
	ID               uint     `json:"id"`
	IdeaTitle        string   `json:"idea_title"`
	Description      string   `json:"description"`
	Approach         string   `json:"approach"`
	BusinessModel    string   `json:"business_model"`
	ValueProposition string   `json:"value_proposition"`
	CoreFeatures     []string `json:"core_features"`
	Monetization     string   `json:"monetization"`
	Tags             []string `json:"tags"`
}

// MarketingSummary is the market block of the detail view.
type MarketingSummary struct {
	TAM               string    `json:"tam"`
	SAM               string    `json:"sam"`
	SOM               string    `json:"som"`
	MarketDescription string    `json:"market_description"`
	Positioning       string    `json:"positioning"`
	PricingModel      string    `json:"pricing_model"`
	TargetSegments    []string  `json:"target_segments"`
	GTMChannels       []string  `json:"gtm_channels"`
	GTMMessaging      string    `json:"gtm_messaging"`
	EarlyAdopters     string    `json:"early_adopters"`
	CompetitiveMoat   string    `json:"competitive_moat"`
	MarketScore       int       `json:"market_score"`
	ScoreReasoning    string    `json:"score_reasoning"`
	SearchDegraded    bool      `json:"search_degraded"`
	CompetitorsCount  int       `json:"competitors_count"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}

// ProblemDetail is the full card view.
type ProblemDetail struct {
	ProblemListItem
	CurrentSolutions  string            `json:"current_solutions"`
	WhyTheyFail       string            `json:"why_they_fail"`
	UserNotes         string            `json:"user_notes"`
	VerifiedAt        sql.NullTime      `json:"verified_at" swaggertype:"string" format:"date-time"`
	StartupIdeas      []IdeaSummary     `json:"startup_ideas"`
	MarketingAnalysis *MarketingSummary `json:"marketing_analysis"`
}

// CompetitorsResponse lists the competitors found by the market stage.
type CompetitorsResponse struct {
	Competitors json.RawMessage `json:"competitors" swaggertype:"array,object"`
	Count       int             `json:"count"`
}

// UpdateStatusRequest moves a card through the review workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" example:"in_review"`
}

// StarRequest sets the starred flag.
type StarRequest struct {
	IsStarred bool `json:"is_starred"`
}

// NotesRequest replaces the user notes.
type NotesRequest struct {
	UserNotes string `json:"user_notes"`
}

// TagsRequest replaces the ordered user tags.
type TagsRequest struct {
	UserTags []string `json:"user_tags"`
}

// CurationResponse echoes the curation fields after a mutation.
type CurationResponse struct {
	ID         uint         `json:"id"`
	CardStatus string       `json:"card_status"`
	IsStarred  bool         `json:"is_starred"`
	UserNotes  string       `json:"user_notes"`
	UserTags   []string     `json:"user_tags"`
	ArchivedAt sql.NullTime `json:"archived_at" swaggertype:"string" format:"date-time"`
	VerifiedAt sql.NullTime `json:"verified_at" swaggertype:"string" format:"date-time"`
}
