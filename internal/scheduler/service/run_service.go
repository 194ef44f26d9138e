package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/config"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/pkg/common"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const defaultHistoryLimit = 20

// RunService creates run rows and publishes them to the executor.
type RunService interface {
	TriggerRun(ctx context.Context, req *dto.TriggerRunRequest) (*dto.RunResponse, error)
	TriggerScheduledRun(ctx context.Context, schedule *entity.RunSchedule) (*dto.RunResponse, error)
	TriggerMarketAnalysis(ctx context.Context, problemID uint) (*dto.RunResponse, error)
	ListRuns(ctx context.Context, limit int) ([]dto.RunResponse, error)
	GetRun(ctx context.Context, id uint, wait time.Duration) (*dto.RunResponse, error)
	CancelRun(ctx context.Context, id uint) (*dto.RunResponse, error)
}

// NewRunService creates a new run service.
func NewRunService(
	cfg *config.Config,
	redisClient *redis.Client,
	runRepo repository.ScrapeRunRepository,
	problemRepo repository.ProblemRepository,
	controlRepo repository.RunControlRepository,
	log *logger.Logger,
) RunService {
	return &runService{
		cfg:         cfg,
		redisClient: redisClient,
		runRepo:     runRepo,
		problemRepo: problemRepo,
		controlRepo: controlRepo,
		logger:      log,
	}
}

type runService struct {
	cfg         *config.Config
	redisClient *redis.Client
	runRepo     repository.ScrapeRunRepository
	problemRepo repository.ProblemRepository
	controlRepo repository.RunControlRepository
	logger      *logger.Logger
}

// TriggerRun starts a manual scrape run.
func (s *runService) TriggerRun(ctx context.Context, req *dto.TriggerRunRequest) (*dto.RunResponse, error) {
	analyze := true
	if req.Analyze != nil {
		analyze = *req.Analyze
	}
	run, err := s.newScrapeRun(req.Source, req.Limit, analyze)
	if err != nil {
		return nil, err
	}
	run.TriggeredBy = entity.TriggeredByManual
	return s.publish(ctx, run)
}

// TriggerScheduledRun starts the run described by a schedule.
func (s *runService) TriggerScheduledRun(ctx context.Context, schedule *entity.RunSchedule) (*dto.RunResponse, error) {
	run, err := s.newScrapeRun(schedule.Source, schedule.Limit, schedule.Analyze)
	if err != nil {
		return nil, err
	}
	run.TriggeredBy = entity.TriggeredBySchedule
	scheduleID := schedule.ID
	run.ScheduleID = &scheduleID
	return s.publish(ctx, run)
}

// TriggerMarketAnalysis starts a market-only run for one problem.
func (s *runService) TriggerMarketAnalysis(ctx context.Context, problemID uint) (*dto.RunResponse, error) {
	if _, err := s.problemRepo.FindByID(ctx, problemID); err != nil {
		return nil, err
	}
	run := &entity.ScrapeRun{
		Source:      entity.SourceSelectorAll,
		Mode:        entity.RunModeMarket,
		Limit:       1,
		Analyze:     true,
		TriggeredBy: entity.TriggeredByManual,
	}
	run.SetProblemIDs([]uint{problemID})
	return s.publish(ctx, run)
}

func (s *runService) newScrapeRun(source string, limit int, analyze bool) (*entity.ScrapeRun, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = entity.SourceSelectorAll
	}
	if limit == 0 {
		limit = s.cfg.Scheduler.DefaultRunLimit
	}
	if limit < 1 || limit > s.cfg.Scheduler.MaxRunLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, s.cfg.Scheduler.MaxRunLimit)
	}
	return &entity.ScrapeRun{
		Source:  source,
		Mode:    entity.RunModeScrape,
		Limit:   limit,
		Analyze: analyze,
	}, nil
}

// publish persists the run row first and then enqueues it. A failed enqueue
// closes the row as failed so no run stays running without a task.
func (s *runService) publish(ctx context.Context, run *entity.ScrapeRun) (*dto.RunResponse, error) {
	run.Status = entity.RunStatusRunning
	run.StartedAt = utils.TimeNowUTC()
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to create run", logger.ErrorField(err))
		return nil, err
	}

	payload, err := json.Marshal(run)
	if err != nil {
		s.logger.Error("Failed to marshal run payload", logger.ErrorField(err), logger.Field("run_id", run.ID))
		return nil, s.failEnqueue(ctx, run, err)
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamRunExecution,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
		Approx: true,
	}).Err(); err != nil {
		s.logger.Error("Failed to enqueue run", logger.ErrorField(err), logger.Field("run_id", run.ID))
		return nil, s.failEnqueue(ctx, run, err)
	}

	s.logger.Info("Run published",
		logger.Field("run_id", run.ID),
		logger.StringField("source", run.Source),
		logger.StringField("mode", string(run.Mode)),
		logger.StringField("triggered_by", run.TriggeredBy))
	return mapRunResponse(run), nil
}

func (s *runService) failEnqueue(ctx context.Context, run *entity.ScrapeRun, cause error) error {
	run.Status = entity.RunStatusFailed
	run.ErrorMessage = sql.NullString{String: "enqueue failed: " + cause.Error(), Valid: true}
	run.CompletedAt = sql.NullTime{Time: utils.TimeNowUTC(), Valid: true}
	if err := s.runRepo.Update(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("Failed to update run", logger.ErrorField(err), logger.Field("run_id", run.ID))
	}
	return fmt.Errorf("failed to enqueue run %d: %w", run.ID, cause)
}

// ListRuns returns the run history, newest first.
func (s *runService) ListRuns(ctx context.Context, limit int) ([]dto.RunResponse, error) {
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if limit < 0 || limit > maxPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxPageSize)
	}
	runs, err := s.runRepo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list runs", logger.ErrorField(err))
		return nil, err
	}
	responses := make([]dto.RunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, *mapRunResponse(&runs[i]))
	}
	return responses, nil
}

// GetRun returns a run. With a positive wait it blocks until the run is terminal
// or the wait elapses, and then returns the latest state either way.
func (s *runService) GetRun(ctx context.Context, id uint, wait time.Duration) (*dto.RunResponse, error) {
	if wait < 0 {
		return nil, fmt.Errorf("%w: wait must not be negative", ErrInvalidInput)
	}
	if wait > s.cfg.Scheduler.MaxWait {
		wait = s.cfg.Scheduler.MaxWait
	}

	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wait == 0 || run.Status.Terminal() {
		return mapRunResponse(run), nil
	}

	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.cfg.Scheduler.WaitPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return mapRunResponse(run), nil
		case <-ticker.C:
			current, err := s.runRepo.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			run = current
			if run.Status.Terminal() {
				return mapRunResponse(run), nil
			}
		}
	}
}

// CancelRun asks the executor to stop a running run. Items already in flight finish.
func (s *runService) CancelRun(ctx context.Context, id uint) (*dto.RunResponse, error) {
	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status.Terminal() {
		return nil, fmt.Errorf("run %d is %s: %w", id, run.Status, ErrRunFinished)
	}
	if err := s.controlRepo.RequestCancel(ctx, id, s.cfg.Scheduler.CancelFlagTTL); err != nil {
		s.logger.Error("Failed to request run cancel", logger.ErrorField(err), logger.Field("run_id", id))
		return nil, err
	}
	s.logger.Info("Run cancel requested", logger.Field("run_id", id))
	return mapRunResponse(run), nil
}

func mapRunResponse(run *entity.ScrapeRun) *dto.RunResponse {
	resp := &dto.RunResponse{
		ID:               run.ID,
		Source:           run.Source,
		Mode:             string(run.Mode),
		Limit:            run.Limit,
		Analyze:          run.Analyze,
		ProblemIDs:       run.ProblemIDs,
		Status:           string(run.Status),
		DiscussionsFound: run.DiscussionsFound,
		ProblemsCreated:  run.ProblemsCreated,
		ItemsFailed:      run.ItemsFailed,
		ErrorMessage:     run.ErrorMessage.String,
		TriggeredBy:      run.TriggeredBy,
		ScheduleID:       run.ScheduleID,
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
	}
	if run.Output.Valid && json.Valid([]byte(run.Output.String)) {
		resp.Output = json.RawMessage(run.Output.String)
	}
	return resp
}
