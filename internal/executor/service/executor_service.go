package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/pkg/common"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/telegram"
	"golang-idea-radar/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// ExecutorService consumes run tasks from the stream and executes them.
type ExecutorService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
	ExecuteRun(ctx context.Context, runID uint) (*entity.ScrapeRun, error)
	Wait()
}

// NewExecutorService creates a new ExecutorService. notifier may be nil.
func NewExecutorService(
	cfg *config.Config,
	redisClient *redis.Client,
	runRepo repository.ScrapeRunRepository,
	problemRepo repository.ProblemRepository,
	controlRepo repository.RunControlRepository,
	orchestrator Orchestrator,
	notifier telegram.Notifier,
	log *logger.Logger,
) ExecutorService {
	return &executorService{
		cfg:          cfg,
		redisClient:  redisClient,
		runRepo:      runRepo,
		problemRepo:  problemRepo,
		controlRepo:  controlRepo,
		orchestrator: orchestrator,
		notifier:     notifier,
		logger:       log,
		slots:        make(chan struct{}, cfg.Executor.MaxConcurrentRuns),
	}
}

type executorService struct {
	cfg          *config.Config
	redisClient  *redis.Client
	runRepo      repository.ScrapeRunRepository
	problemRepo  repository.ProblemRepository
	controlRepo  repository.RunControlRepository
	orchestrator Orchestrator
	notifier     telegram.Notifier
	logger       *logger.Logger

	// slots bounds the number of runs executing at once
	slots chan struct{}
	wg    sync.WaitGroup
}

// ProcessTask waits for a free run slot, dequeues one task and starts it in the background.
func (s *executorService) ProcessTask(ctx context.Context) {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}

	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamRunExecution, ">"},
		Count:    1,
		Block:    s.cfg.Executor.StreamBlockTimeout,
	}).Result()
	if err != nil {
		<-s.slots
		if errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		<-s.slots
		return
	}

	s.dispatch(ctx, streams[0].Messages[0])
}

// ProcessRetries reclaims tasks left pending by a consumer that died mid-run.
func (s *executorService) ProcessRetries(ctx context.Context) {
	select {
	case s.slots <- struct{}{}:
	default:
		// every slot is busy, try again on the next tick
		return
	}

	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamRunExecution,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		MinIdle:  s.cfg.Executor.RetryMinIdle,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		<-s.slots
		s.logger.Error("Failed to claim pending run task", logger.ErrorField(err))
		return
	}
	if len(msgs) == 0 {
		<-s.slots
		s.logger.Debug("No pending run tasks to retry")
		return
	}

	s.logger.Info("Reclaimed pending run task", logger.StringField("message_id", msgs[0].ID))
	s.dispatch(ctx, msgs[0])
}

// dispatch runs the task in a goroutine that owns the slot taken by the caller.
func (s *executorService) dispatch(ctx context.Context, message redis.XMessage) {
	var runID uint
	payload, ok := message.Values["payload"].(string)
	if ok {
		var task entity.ScrapeRun
		if err := json.Unmarshal([]byte(payload), &task); err != nil {
			ok = false
		}
		runID = task.ID
	}
	if !ok || runID == 0 {
		s.logger.Error("Malformed run task, dropping", logger.StringField("message_id", message.ID))
		s.ack(ctx, message.ID)
		<-s.slots
		return
	}

	s.wg.Add(1)
	utils.GoSafe(s.logger, func() {
		defer s.wg.Done()
		defer func() { <-s.slots }()

		if _, err := s.ExecuteRun(ctx, runID); err != nil && !errors.Is(err, entity.ErrNotFound) {
			// the row could not be finalized; leave the task pending for ProcessRetries
			return
		}
		s.ack(ctx, message.ID)
	})
}

func (s *executorService) ack(ctx context.Context, messageID string) {
	if err := s.redisClient.XAck(context.WithoutCancel(ctx), common.RedisStreamRunExecution, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.logger.Error("Failed to acknowledge run task", logger.ErrorField(err), logger.StringField("message_id", messageID))
	}
}

// ExecuteRun runs the orchestrator for a persisted run and writes the terminal state.
// A run already terminal is returned untouched.
func (s *executorService) ExecuteRun(ctx context.Context, runID uint) (*entity.ScrapeRun, error) {
	run, err := s.runRepo.FindByID(ctx, runID)
	if err != nil {
		s.logger.Error("Failed to load run", logger.ErrorField(err), logger.Field("run_id", runID))
		return nil, err
	}
	if run.Status.Terminal() {
		s.logger.Info("Run already finished, skipping", logger.Field("run_id", run.ID), logger.StringField("status", string(run.Status)))
		return run, nil
	}

	s.logger.Info("Processing run",
		logger.Field("run_id", run.ID),
		logger.StringField("source", run.Source),
		logger.StringField("mode", string(run.Mode)),
		logger.IntField("limit", run.Limit),
		logger.Field("analyze", run.Analyze))

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Executor.RunTimeout)
	summary, runErr := s.orchestrator.Run(runCtx, run)
	cancel()

	// the terminal write must happen even when the run was cancelled
	finalCtx := context.WithoutCancel(ctx)
	s.finalize(run, summary, runErr)
	if err := s.runRepo.Update(finalCtx, run); err != nil {
		s.logger.Error("Failed to update run", logger.ErrorField(err), logger.Field("run_id", run.ID))
		return nil, fmt.Errorf("failed to update run %d: %w", run.ID, err)
	}
	if err := s.controlRepo.Clear(finalCtx, run.ID); err != nil {
		s.logger.Warn("Failed to clear cancel flag", logger.ErrorField(err), logger.Field("run_id", run.ID))
	}

	s.logger.Info("Run finished",
		logger.Field("run_id", run.ID),
		logger.StringField("status", string(run.Status)),
		logger.IntField("discussions_found", run.DiscussionsFound),
		logger.IntField("problems_created", run.ProblemsCreated),
		logger.IntField("items_failed", run.ItemsFailed))

	s.notify(finalCtx, run, summary)
	return run, nil
}

func (s *executorService) finalize(run *entity.ScrapeRun, summary *dto.RunSummary, runErr error) {
	if summary == nil {
		summary = dto.NewRunSummary(run.ID, string(run.Mode))
	}

	run.DiscussionsFound = summary.DiscussionsFound
	run.ProblemsCreated = summary.ProblemsCreated
	run.ItemsFailed = summary.ItemsFailed

	messages := append([]string{}, summary.Errors...)
	if errors.Is(runErr, ErrRunCancelled) {
		// a stopped run still finished what it started; the stop is recorded, not a failure
		s.logger.Warn("Run cancelled", logger.Field("run_id", run.ID))
		summary.Cancelled = true
		summary.Warnings = append(summary.Warnings, runErr.Error())
		run.Status = entity.RunStatusCompleted
		messages = append([]string{runErr.Error()}, messages...)
	} else if runErr != nil {
		s.logger.Error("Run failed", logger.ErrorField(runErr), logger.Field("run_id", run.ID))
		run.Status = entity.RunStatusFailed
		messages = append([]string{runErr.Error()}, messages...)
	} else {
		run.Status = entity.RunStatusCompleted
	}
	if len(messages) > 0 {
		run.ErrorMessage = sql.NullString{String: strings.Join(messages, "\n"), Valid: true}
	}

	output, err := json.Marshal(summary)
	if err != nil {
		s.logger.Error("Failed to marshal run summary", logger.ErrorField(err), logger.Field("run_id", run.ID))
	} else {
		run.Output = sql.NullString{String: string(output), Valid: true}
	}

	run.CompletedAt = sql.NullTime{Time: utils.TimeNowUTC(), Valid: true}
}

func (s *executorService) notify(ctx context.Context, run *entity.ScrapeRun, summary *dto.RunSummary) {
	if s.notifier == nil || summary == nil {
		return
	}

	if run.Status == entity.RunStatusFailed && run.ProblemsCreated == 0 {
		msg := telegram.FormatErrorAlertMessage(utils.TimeNowUTC(), "run_failed", run.ErrorMessage.String, fmt.Sprintf("run %d source %s", run.ID, run.Source))
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send telegram alert", logger.ErrorField(err), logger.Field("run_id", run.ID))
		}
		return
	}

	problems, err := s.digestProblems(ctx, summary)
	if err != nil {
		s.logger.Error("Failed to load digest problems", logger.ErrorField(err), logger.Field("run_id", run.ID))
	}
	for _, msg := range telegram.FormatRunDigest(summary, string(run.Status), problems) {
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send telegram digest", logger.ErrorField(err), logger.Field("run_id", run.ID))
			return
		}
	}
}

// digestProblems returns the problems scored in this run at or above the digest threshold, best first.
func (s *executorService) digestProblems(ctx context.Context, summary *dto.RunSummary) ([]dto.DigestProblem, error) {
	scores := make(map[uint]int)
	var ids []uint
	for _, item := range summary.Items {
		if item.ProblemID == 0 || item.OverallScore == nil || *item.OverallScore < s.cfg.Executor.DigestMinScore {
			continue
		}
		scores[item.ProblemID] = *item.OverallScore
		ids = append(ids, item.ProblemID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	problems, err := s.problemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	digest := make([]dto.DigestProblem, 0, len(problems))
	for _, p := range problems {
		d := dto.DigestProblem{
			ProblemID:    p.ID,
			Statement:    p.ProblemStatement,
			Audience:     p.TargetAudience,
			OverallScore: scores[p.ID],
		}
		if p.Severity != nil {
			d.Severity = *p.Severity
		}
		if p.Discussion != nil {
			d.URL = p.Discussion.URL
		}
		digest = append(digest, d)
	}
	sort.SliceStable(digest, func(i, j int) bool { return digest[i].OverallScore > digest[j].OverallScore })
	return digest, nil
}

// Wait blocks until every started run has finished.
func (s *executorService) Wait() {
	s.wg.Wait()
}
