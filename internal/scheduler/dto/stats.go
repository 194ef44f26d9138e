package dto

import "time"

// StatsTotals counts every stored record.
type StatsTotals struct {
	Discussions int64 `json:"discussions"`
	Problems    int64 `json:"problems"`
	Ideas       int64 `json:"ideas"`
}

// StatsToday counts records created since UTC midnight.
type StatsToday struct {
	Discussions int64 `json:"discussions"`
	Problems    int64 `json:"problems"`
}

// AnalysisTierCounts counts problems per analysis tier.
type AnalysisTierCounts struct {
	Basic int64 `json:"basic"`
	Deep  int64 `json:"deep"`
}

// AverageScores holds averages rounded to one decimal.
type AverageScores struct {
	Overall float64 `json:"overall"`
	Market  float64 `json:"market"`
}

// TopProblem is a shortened problem row for the dashboard.
type TopProblem struct {
	ID               uint   `json:"id"`
	ProblemStatement string `json:"problem_statement"`
	Score            int    `json:"score"`
	Upvotes          int    `json:"upvotes"`
}

// SourceStats summarises one source.
type SourceStats struct {
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	DiscussionsCount int64      `json:"discussions_count"`
	LastScraped      *time.Time `json:"last_scraped"`
	IsActive         bool       `json:"is_active"`
}

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	Totals            StatsTotals        `json:"totals"`
	Today             StatsToday         `json:"today"`
	AnalysisTiers     AnalysisTierCounts `json:"analysis_tiers"`
	ScoreDistribution map[string]int     `json:"score_distribution"`
	AverageScores     AverageScores      `json:"average_scores"`
	TopProblems       []TopProblem       `json:"top_problems"`
	Sources           []SourceStats      `json:"sources"`
	CardStatuses      map[string]int64   `json:"card_statuses"`
	StarredCount      int64              `json:"starred_count"`
	Timestamp         time.Time          `json:"timestamp"`
}

// DayCount is the number of records created on one UTC date.
type DayCount struct {
	Date  string `json:"date" example:"2024-05-01"`
	Count int    `json:"count"`
}

// RecentActivityResponse lists daily counts over the last PeriodDays days.
type RecentActivityResponse struct {
	PeriodDays       int        `json:"period_days"`
	DiscussionsByDay []DayCount `json:"discussions_by_day"`
	ProblemsByDay    []DayCount `json:"problems_by_day"`
}

// HealthResponse reports backing store connectivity.
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Database  string    `json:"database" example:"connected"`
	Redis     string    `json:"redis" example:"connected"`
	Timestamp time.Time `json:"timestamp"`
}
