package dto

import "strings"

// Item outcomes recorded in the run summary.
const (
	ItemRejected = "rejected"
	ItemAnalyzed = "analyzed"
	ItemMarket   = "market_analyzed"
	ItemSkipped  = "skipped"
	ItemFailed   = "failed"
)

// ItemResult is the outcome for one discussion in a run.
type ItemResult struct {
	DiscussionID uint   `json:"discussion_id"`
	ProblemID    uint   `json:"problem_id,omitempty"`
	Status       string `json:"status"`
	Stage        string `json:"stage,omitempty"`
	Error        string `json:"error,omitempty"`
	OverallScore *int   `json:"overall_score,omitempty"`
}

// StageCounters counts per-stage outcomes.
type StageCounters struct {
	FilterPassed   int `json:"filter_passed"`
	FilterRejected int `json:"filter_rejected"`
	FilterFailed   int `json:"filter_failed"`
	DeepSucceeded  int `json:"deep_succeeded"`
	DeepFailed     int `json:"deep_failed"`
	MarketSuccess  int `json:"market_succeeded"`
	MarketFailed   int `json:"market_failed"`
	MarketDegraded int `json:"market_degraded"`
}

// RunSummary is written to scrape_runs.output when a run finishes.
type RunSummary struct {
	RunID            uint          `json:"run_id"`
	Mode             string        `json:"mode"`
	SourcesFetched   int           `json:"sources_fetched"`
	SourcesFailed    int           `json:"sources_failed"`
	DiscussionsFound int           `json:"discussions_found"`
	Duplicates       int           `json:"duplicates"`
	Pending          int           `json:"pending"`
	ProblemsCreated  int           `json:"problems_created"`
	ItemsSkipped     int           `json:"items_skipped"`
	ItemsFailed      int           `json:"items_failed"`
	Cancelled        bool          `json:"cancelled"`
	Stages           StageCounters `json:"stages"`
	Warnings         []string      `json:"warnings"`
	Errors           []string      `json:"errors"`
	Items            []ItemResult  `json:"items"`
}

// NewRunSummary returns a summary with non-nil lists so the JSON output is stable.
func NewRunSummary(runID uint, mode string) *RunSummary {
	return &RunSummary{
		RunID:    runID,
		Mode:     mode,
		Warnings: []string{},
		Errors:   []string{},
		Items:    []ItemResult{},
	}
}

// ErrorMessage joins recorded errors one per line.
func (s *RunSummary) ErrorMessage() string {
	return strings.Join(s.Errors, "\n")
}

// DigestProblem is one high-scoring problem listed in the run digest.
type DigestProblem struct {
	ProblemID    uint
	Statement    string
	Audience     string
	Severity     int
	OverallScore int
	URL          string
}
