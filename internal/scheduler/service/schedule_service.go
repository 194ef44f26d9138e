package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/config"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/robfig/cron/v3"
)

// NewCronParser returns the parser used for every schedule expression.
// It accepts five-field expressions and descriptors such as @every 6h.
func NewCronParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// ScheduleService defines the interface for managing schedules.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetScheduleByID(ctx context.Context, id uint) (*dto.ScheduleResponse, error)
	ListSchedules(ctx context.Context, activeOnly bool) ([]*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, id uint, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, id uint) error
	NextExecution(expression string, from time.Time) (time.Time, error)
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(cfg *config.Config, scheduleRepo repository.RunScheduleRepository, log *logger.Logger) ScheduleService {
	return &scheduleService{
		cfg:          cfg,
		scheduleRepo: scheduleRepo,
		cronParser:   NewCronParser(),
		logger:       log,
	}
}

type scheduleService struct {
	cfg          *config.Config
	scheduleRepo repository.RunScheduleRepository
	cronParser   cron.Parser
	logger       *logger.Logger
}

// CreateSchedule handles the business logic for creating a new schedule.
func (s *scheduleService) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule := &entity.RunSchedule{}
	if err := s.apply(schedule, req); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		s.logger.Error("Failed to create schedule", logger.ErrorField(err))
		return nil, err
	}

	s.logger.Info("Schedule created successfully", logger.Field("schedule_id", schedule.ID), logger.StringField("cron", schedule.CronExpression))
	return s.mapToScheduleResponse(schedule), nil
}

// GetScheduleByID retrieves a schedule by its ID.
func (s *scheduleService) GetScheduleByID(ctx context.Context, id uint) (*dto.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find schedule", logger.ErrorField(err), logger.Field("schedule_id", id))
		return nil, err
	}
	return s.mapToScheduleResponse(schedule), nil
}

// ListSchedules returns every schedule, or only the active ones.
func (s *scheduleService) ListSchedules(ctx context.Context, activeOnly bool) ([]*dto.ScheduleResponse, error) {
	find := s.scheduleRepo.FindAll
	if activeOnly {
		find = s.scheduleRepo.FindActive
	}
	schedules, err := find(ctx)
	if err != nil {
		s.logger.Error("Failed to list schedules", logger.ErrorField(err), logger.Field("active_only", activeOnly))
		return nil, err
	}

	scheduleResponses := make([]*dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		scheduleResponses = append(scheduleResponses, s.mapToScheduleResponse(&schedules[i]))
	}
	return scheduleResponses, nil
}

// UpdateSchedule replaces the descriptor of an existing schedule and re-arms it.
func (s *scheduleService) UpdateSchedule(ctx context.Context, id uint, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find schedule for update", logger.ErrorField(err), logger.Field("schedule_id", id))
		return nil, err
	}
	if err := s.apply(schedule, req); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		s.logger.Error("Failed to update schedule", logger.ErrorField(err), logger.Field("schedule_id", id))
		return nil, err
	}

	s.logger.Info("Schedule updated successfully", logger.Field("schedule_id", id))
	return s.mapToScheduleResponse(schedule), nil
}

// DeleteSchedule deletes a schedule by its ID.
func (s *scheduleService) DeleteSchedule(ctx context.Context, id uint) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete schedule", logger.ErrorField(err), logger.Field("schedule_id", id))
		return err
	}
	s.logger.Info("Schedule deleted successfully", logger.Field("schedule_id", id))
	return nil
}

// NextExecution returns the first activation of expression strictly after from.
func (s *scheduleService) NextExecution(expression string, from time.Time) (time.Time, error) {
	sched, err := s.cronParser.Parse(expression)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cron expression %q: %v", ErrInvalidInput, expression, err)
	}
	return sched.Next(from), nil
}

// apply validates req and copies it onto schedule.
func (s *scheduleService) apply(schedule *entity.RunSchedule, req *dto.CreateScheduleRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	expression := strings.TrimSpace(req.CronExpression)
	switch {
	case expression != "" && req.IntervalHours != 0:
		return fmt.Errorf("%w: set either cron_expression or interval_hours, not both", ErrInvalidInput)
	case req.IntervalHours < 0:
		return fmt.Errorf("%w: interval_hours must be positive", ErrInvalidInput)
	case req.IntervalHours > 0:
		expression = fmt.Sprintf("@every %dh", req.IntervalHours)
	case expression == "":
		return fmt.Errorf("%w: cron_expression or interval_hours is required", ErrInvalidInput)
	}

	next, err := s.NextExecution(expression, utils.TimeNowUTC())
	if err != nil {
		return err
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.Scheduler.DefaultRunLimit
	}
	if limit < 1 || limit > s.cfg.Scheduler.MaxRunLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, s.cfg.Scheduler.MaxRunLimit)
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = entity.SourceSelectorAll
	}

	schedule.Name = name
	schedule.CronExpression = expression
	schedule.Source = source
	schedule.Limit = limit
	schedule.Analyze = req.Analyze
	schedule.IsActive = req.IsActive
	schedule.NextExecution = sql.NullTime{}
	if req.IsActive {
		schedule.NextExecution = sql.NullTime{Time: next, Valid: true}
	}
	return nil
}

// mapToScheduleResponse maps an entity.RunSchedule to a dto.ScheduleResponse.
func (s *scheduleService) mapToScheduleResponse(schedule *entity.RunSchedule) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		ID:             schedule.ID,
		Name:           schedule.Name,
		CronExpression: schedule.CronExpression,
		Source:         schedule.Source,
		Limit:          schedule.Limit,
		Analyze:        schedule.Analyze,
		IsActive:       schedule.IsActive,
		NextExecution:  schedule.NextExecution,
		LastExecution:  schedule.LastExecution,
		CreatedAt:      schedule.CreatedAt,
		UpdatedAt:      schedule.UpdatedAt,
	}
}
