package service

import (
	"context"
	"database/sql"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"
)

// SchedulerService polls the persisted schedules and triggers the runs that are due.
type SchedulerService interface {
	Start(ctx context.Context)
	Rearm(ctx context.Context)
	ProcessSchedules(ctx context.Context)
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	scheduleRepo repository.RunScheduleRepository,
	scheduleService ScheduleService,
	runService RunService,
	log *logger.Logger,
	pollingInterval time.Duration,
) SchedulerService {
	return &schedulerService{
		scheduleRepo:    scheduleRepo,
		scheduleService: scheduleService,
		runService:      runService,
		logger:          log,
		pollingInterval: pollingInterval,
	}
}

type schedulerService struct {
	scheduleRepo    repository.RunScheduleRepository
	scheduleService ScheduleService
	runService      RunService
	logger          *logger.Logger
	pollingInterval time.Duration
}

// Start re-arms every schedule and then polls until ctx is done.
func (s *schedulerService) Start(ctx context.Context) {
	s.Rearm(ctx)

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessSchedules(ctx)
		}
	}
}

// Rearm recomputes the next execution of every active schedule from now, so
// activations missed while the service was down are skipped rather than replayed.
func (s *schedulerService) Rearm(ctx context.Context) {
	schedules, err := s.scheduleRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load schedules to re-arm", logger.ErrorField(err))
		return
	}

	now := utils.TimeNowUTC()
	for i := range schedules {
		schedule := &schedules[i]
		next, err := s.scheduleService.NextExecution(schedule.CronExpression, now)
		if err != nil {
			s.logger.Error("Failed to parse cron expression", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
			continue
		}
		schedule.NextExecution = sql.NullTime{Time: next, Valid: true}
		if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
			s.logger.Error("Failed to re-arm schedule", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
			continue
		}
		s.logger.Info("Schedule armed", logger.Field("schedule_id", schedule.ID), logger.StringField("next_execution", utils.PrettyDate(next)))
	}
}

// ProcessSchedules triggers one run per due schedule and advances it.
func (s *schedulerService) ProcessSchedules(ctx context.Context) {
	now := utils.TimeNowUTC()
	schedules, err := s.scheduleRepo.FindDue(ctx, now)
	if err != nil {
		s.logger.Error("Failed to find due schedules", logger.ErrorField(err))
		return
	}

	for i := range schedules {
		if !utils.ShouldContinue(ctx, s.logger) {
			return
		}
		s.fire(ctx, &schedules[i], now)
	}
}

func (s *schedulerService) fire(ctx context.Context, schedule *entity.RunSchedule, now time.Time) {
	run, err := s.runService.TriggerScheduledRun(ctx, schedule)
	if err != nil {
		// the schedule still advances so a broken descriptor does not fire on every tick
		s.logger.Error("Failed to trigger scheduled run", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
	} else {
		s.logger.Info("Scheduled run triggered", logger.Field("schedule_id", schedule.ID), logger.Field("run_id", run.ID))
	}

	next, err := s.scheduleService.NextExecution(schedule.CronExpression, now)
	if err != nil {
		s.logger.Error("Failed to parse cron expression, deactivating schedule", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		schedule.IsActive = false
		schedule.NextExecution = sql.NullTime{}
	} else {
		schedule.NextExecution = sql.NullTime{Time: next, Valid: true}
	}
	schedule.LastExecution = sql.NullTime{Time: now, Valid: true}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		s.logger.Error("Failed to update next execution time", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
	}
}
