package dto

import (
	"database/sql"
	"time"
)

// CreateScheduleRequest defines the DTO for creating a new schedule.
// Exactly one of CronExpression and IntervalHours must be set.
type CreateScheduleRequest struct {
	Name           string `json:"name"`
	CronExpression string `json:"cron_expression"`
	IntervalHours  int    `json:"interval_hours"`
	Source         string `json:"source"`
	Limit          int    `json:"limit"`
	Analyze        bool   `json:"analyze"`
	IsActive       bool   `json:"is_active"`
}

// UpdateScheduleRequest defines the DTO for updating an existing schedule.
type UpdateScheduleRequest = CreateScheduleRequest

// ScheduleResponse is the DTO for API responses containing schedule details.
type ScheduleResponse struct {
	ID             uint         `json:"id"`
	Name           string       `json:"name"`
	CronExpression string       `json:"cron_expression"`
	Source         string       `json:"source"`
	Limit          int          `json:"limit"`
	Analyze        bool         `json:"analyze"`
	IsActive       bool         `json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution" swaggertype:"string" format:"date-time"`
	LastExecution  sql.NullTime `json:"last_execution" swaggertype:"string" format:"date-time"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
