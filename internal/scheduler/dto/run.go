package dto

import (
	"database/sql"
	"encoding/json"
	"time"
)

// TriggerRunRequest starts a scrape run. Zero values fall back to configured defaults.
type TriggerRunRequest struct {
	Source  string `json:"source" example:"all"`
	Limit   int    `json:"limit" example:"25"`
	Analyze *bool  `json:"analyze"`
}

// RunResponse is the API view of a scrape run row.
type RunResponse struct {
	ID               uint            `json:"id"`
	Source           string          `json:"source"`
	Mode             string          `json:"mode"`
	Limit            int             `json:"limit"`
	Analyze          bool            `json:"analyze"`
	ProblemIDs       string          `json:"problem_ids,omitempty"`
	Status           string          `json:"status"`
	DiscussionsFound int             `json:"discussions_found"`
	ProblemsCreated  int             `json:"problems_created"`
	ItemsFailed      int             `json:"items_failed"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	Output           json.RawMessage `json:"output,omitempty" swaggertype:"object"`
	TriggeredBy      string          `json:"triggered_by"`
	ScheduleID       *uint           `json:"schedule_id,omitempty"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      sql.NullTime    `json:"completed_at" swaggertype:"string" format:"date-time"`
}

// SourceResponse is the API view of a configured source.
type SourceResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Config      json.RawMessage `json:"config" swaggertype:"object"`
	IsActive    bool            `json:"is_active"`
	LastScraped sql.NullTime    `json:"last_scraped" swaggertype:"string" format:"date-time"`
	CreatedAt   time.Time       `json:"created_at"`
}
