package entity

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RunStatus is the lifecycle state of a scrape run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// RunMode selects what a run does.
type RunMode string

const (
	RunModeScrape RunMode = "scrape"
	RunModeMarket RunMode = "market"
)

// SourceSelectorAll selects every active source.
const SourceSelectorAll = "all"

const (
	TriggeredByManual   = "manual"
	TriggeredBySchedule = "schedule"
)

// ScrapeRun is the append-only log row for one pipeline run.
type ScrapeRun struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Source           string         `gorm:"type:varchar(100);not null;default:all" json:"source"`
	Mode             RunMode        `gorm:"type:varchar(20);not null;default:scrape" json:"mode"`
	Limit            int            `gorm:"column:limit;not null" json:"limit"`
	Analyze          bool           `gorm:"not null" json:"analyze"`
	ProblemIDs       string         `json:"problem_ids,omitempty"`
	Status           RunStatus      `gorm:"type:varchar(20);not null" json:"status"`
	DiscussionsFound int            `gorm:"not null;default:0" json:"discussions_found"`
	ProblemsCreated  int            `gorm:"not null;default:0" json:"problems_created"`
	ItemsFailed      int            `gorm:"not null;default:0" json:"items_failed"`
	ErrorMessage     sql.NullString `json:"error_message"`
	Output           sql.NullString `json:"output"`
	TriggeredBy      string         `gorm:"type:varchar(20);not null;default:manual" json:"triggered_by"`
	ScheduleID       *uint          `json:"schedule_id,omitempty"`
	StartedAt        time.Time      `json:"started_at"`
	CompletedAt      sql.NullTime   `json:"completed_at"`
}

func (ScrapeRun) TableName() string {
	return "scrape_runs"
}

// ProblemIDList parses the comma separated problem ids of a market run.
func (r *ScrapeRun) ProblemIDList() ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(r.ProblemIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid problem id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// SetProblemIDs stores ids in the comma separated form read by ProblemIDList.
func (r *ScrapeRun) SetProblemIDs(ids []uint) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	r.ProblemIDs = strings.Join(parts, ",")
}

// RunSchedule is a persisted trigger descriptor polled by the scheduling service.
type RunSchedule struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CronExpression string       `gorm:"type:varchar(100);not null" json:"cron_expression"`
	Source         string       `gorm:"type:varchar(100);not null;default:all" json:"source"`
	Limit          int          `gorm:"column:limit;not null" json:"limit"`
	Analyze        bool         `gorm:"not null" json:"analyze"`
	IsActive       bool         `gorm:"not null" json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution"`
	LastExecution  sql.NullTime `json:"last_execution"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RunSchedule) TableName() string {
	return "run_schedules"
}
