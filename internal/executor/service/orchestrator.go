package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/internal/executor/strategy"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ErrRunCancelled is returned when a run stopped early because of a cancel request or shutdown.
var ErrRunCancelled = errors.New("run cancelled")

// Orchestrator runs the ingest and analysis pipeline for one scrape run.
type Orchestrator interface {
	Run(ctx context.Context, run *entity.ScrapeRun) (*dto.RunSummary, error)
}

type orchestrator struct {
	cfg         config.Executor
	logger      *logger.Logger
	sources     repository.SourceRepository
	discussions repository.DiscussionRepository
	problems    repository.ProblemRepository
	claims      repository.ClaimRepository
	control     repository.RunControlRepository
	fetchers    map[entity.SourceType]strategy.SourceFetchStrategy
	filter      *filterStage
	deep        *deepAnalysisStage
	market      *marketAnalysisStage
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	cfg *config.Config,
	log *logger.Logger,
	sources repository.SourceRepository,
	discussions repository.DiscussionRepository,
	problems repository.ProblemRepository,
	claims repository.ClaimRepository,
	control repository.RunControlRepository,
	ai repository.AIRepository,
	search repository.SearchRepository,
	fetchers []strategy.SourceFetchStrategy,
) Orchestrator {
	fetcherMap := make(map[entity.SourceType]strategy.SourceFetchStrategy)
	for _, f := range fetchers {
		fetcherMap[f.GetType()] = f
	}

	return &orchestrator{
		cfg:         cfg.Executor,
		logger:      log,
		sources:     sources,
		discussions: discussions,
		problems:    problems,
		claims:      claims,
		control:     control,
		fetchers:    fetcherMap,
		filter:      newFilterStage(ai, discussions, cfg.Executor.FilterTimeout, log),
		deep:        newDeepAnalysisStage(ai, problems, log),
		market:      newMarketAnalysisStage(ai, search, problems, log),
	}
}

// workItem is one unit for the worker pool. A nil problem means the full
// discussion pipeline, otherwise only the market stage runs.
type workItem struct {
	discussionID uint
	problem      *entity.Problem
	// requested re-runs the market stage even when an analysis exists
	requested bool
}

// Run executes the run. The returned summary is always non-nil; an error means the run failed
// as a whole. Per-item failures are recorded in the summary and do not fail the run.
func (o *orchestrator) Run(ctx context.Context, run *entity.ScrapeRun) (*dto.RunSummary, error) {
	ctx = logger.ContextWithRunID(ctx, run.ID)
	summary := dto.NewRunSummary(run.ID, string(run.Mode))
	rec := newRunRecorder(summary)

	if run.Mode == entity.RunModeMarket {
		items, err := o.collectMarketRequests(ctx, run, rec)
		if err != nil {
			return summary, err
		}
		return summary, o.process(ctx, run.ID, items, rec)
	}

	sources, err := o.resolveSources(ctx, run.Source)
	if err != nil {
		return summary, err
	}

	if fetched := o.fetchAll(ctx, sources, run.Limit, rec); fetched == 0 {
		return summary, fmt.Errorf("all %d selected sources failed to fetch", len(sources))
	}

	if !run.Analyze {
		return summary, nil
	}

	items, err := o.collectPending(ctx, sources, run.Limit, rec)
	if err != nil {
		return summary, err
	}
	return summary, o.process(ctx, run.ID, items, rec)
}

func (o *orchestrator) resolveSources(ctx context.Context, selector string) ([]entity.Source, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || selector == entity.SourceSelectorAll {
		sources, err := o.sources.FindActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load sources: %w", err)
		}
		if len(sources) == 0 {
			return nil, errors.New("no active sources")
		}
		return sources, nil
	}

	source, err := o.sources.FindByName(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("unknown source %q: %w", selector, err)
	}
	if !source.IsActive {
		return nil, fmt.Errorf("source %q is not active", selector)
	}
	return []entity.Source{*source}, nil
}

// fetchAll fetches and ingests every source and returns how many fetched successfully.
func (o *orchestrator) fetchAll(ctx context.Context, sources []entity.Source, limit int, rec *runRecorder) int {
	fetched := 0
	for i := range sources {
		if !utils.ShouldContinue(ctx, o.logger) {
			rec.fail(fmt.Sprintf("source %s: %v", sources[i].Name, ctx.Err()))
			break
		}
		if err := o.fetchSource(ctx, &sources[i], limit, rec); err != nil {
			o.logger.Error("Failed to fetch source", logger.ErrorField(err), logger.StringField("source", sources[i].Name))
			rec.update(func(s *dto.RunSummary) {
				s.SourcesFailed++
				s.Errors = append(s.Errors, fmt.Sprintf("source %s: %v", sources[i].Name, err))
			})
			continue
		}
		fetched++
		rec.update(func(s *dto.RunSummary) { s.SourcesFetched++ })
	}
	return fetched
}

func (o *orchestrator) fetchSource(ctx context.Context, source *entity.Source, limit int, rec *runRecorder) error {
	fetcher, ok := o.fetchers[source.Type]
	if !ok {
		return fmt.Errorf("no fetcher registered for source type %s", source.Type)
	}

	raws, err := fetcher.Fetch(ctx, source, limit)
	if err != nil {
		return err
	}

	created, duplicates := 0, 0
	for _, raw := range raws {
		discussion := &entity.Discussion{
			SourceID:      source.ID,
			URL:           raw.URL,
			ExternalID:    raw.ExternalID,
			Title:         raw.Title,
			Content:       raw.Content,
			Author:        raw.Author,
			Upvotes:       raw.Upvotes,
			CommentsCount: raw.CommentsCount,
		}
		if raw.PostedAt != nil {
			discussion.PostedAt = sql.NullTime{Time: *raw.PostedAt, Valid: true}
		}

		isNew, err := o.discussions.Ingest(ctx, discussion)
		if err != nil {
			o.logger.Warn("Failed to ingest discussion", logger.ErrorField(err), logger.StringField("url", raw.URL))
			rec.fail(fmt.Sprintf("ingest %s: %v", raw.URL, err))
			continue
		}
		if isNew {
			created++
		} else {
			duplicates++
		}
	}

	if err := o.sources.TouchLastScraped(ctx, source.ID); err != nil {
		o.logger.Warn("Failed to update last_scraped", logger.ErrorField(err), logger.StringField("source", source.Name))
	}

	rec.update(func(s *dto.RunSummary) {
		s.DiscussionsFound += created
		s.Duplicates += duplicates
	})
	o.logger.Info("Source ingested",
		logger.StringField("source", source.Name),
		logger.IntField("fetched", len(raws)),
		logger.IntField("created", created),
		logger.IntField("duplicates", duplicates))
	return nil
}

func (o *orchestrator) collectPending(ctx context.Context, sources []entity.Source, limit int, rec *runRecorder) ([]workItem, error) {
	var items []workItem
	sourceIDs := make([]uint, 0, len(sources))
	for _, src := range sources {
		sourceIDs = append(sourceIDs, src.ID)
		pending, err := o.discussions.FindPendingBySource(ctx, src.ID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load pending discussions for %s: %w", src.Name, err)
		}
		for _, d := range pending {
			items = append(items, workItem{discussionID: d.ID})
		}
	}

	awaiting, err := o.problems.FindAwaitingMarket(ctx, sourceIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems awaiting market analysis: %w", err)
	}
	for i := range awaiting {
		items = append(items, workItem{discussionID: awaiting[i].DiscussionID, problem: &awaiting[i]})
	}

	rec.update(func(s *dto.RunSummary) { s.Pending = len(items) })
	return items, nil
}

func (o *orchestrator) collectMarketRequests(ctx context.Context, run *entity.ScrapeRun, rec *runRecorder) ([]workItem, error) {
	ids, err := run.ProblemIDList()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.New("market run without problem ids")
	}

	problems, err := o.problems.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}

	found := make(map[uint]bool, len(problems))
	items := make([]workItem, 0, len(problems))
	for i := range problems {
		found[problems[i].ID] = true
		items = append(items, workItem{discussionID: problems[i].DiscussionID, problem: &problems[i], requested: true})
	}
	for _, id := range ids {
		if !found[id] {
			rec.fail(fmt.Sprintf("problem %d: %v", id, entity.ErrNotFound))
		}
	}
	if len(items) == 0 {
		return nil, errors.New("none of the requested problems exist")
	}

	rec.update(func(s *dto.RunSummary) { s.Pending = len(items) })
	return items, nil
}

// process runs items through a bounded worker pool. Cancellation stops new items;
// items already started finish on a detached context bounded by the item timeout.
func (o *orchestrator) process(ctx context.Context, runID uint, items []workItem, rec *runRecorder) error {
	owner := uuid.NewString()
	sem := semaphore.NewWeighted(int64(o.cfg.WorkerConcurrency))
	var wg sync.WaitGroup
	cancelled := false

	for _, item := range items {
		if o.stopRequested(ctx, runID) {
			cancelled = true
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			cancelled = true
			break
		}
		// the cancel flag may have been set while waiting for a slot
		if o.stopRequested(ctx, runID) {
			sem.Release(1)
			cancelled = true
			break
		}

		wg.Add(1)
		utils.GoSafe(o.logger, func() {
			defer wg.Done()
			defer sem.Release(1)

			itemCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.ItemTimeout)
			defer cancel()
			rec.item(o.processItem(itemCtx, owner, item, rec))
		})
	}
	wg.Wait()

	if cancelled {
		rec.update(func(s *dto.RunSummary) { s.Cancelled = true })
		o.logger.Warn("Run cancelled, remaining items not started", logger.Field("run_id", runID))
		return ErrRunCancelled
	}
	return nil
}

func (o *orchestrator) stopRequested(ctx context.Context, runID uint) bool {
	if ctx.Err() != nil {
		return true
	}
	cancelled, err := o.control.IsCancelled(ctx, runID)
	if err != nil {
		o.logger.Warn("Failed to read cancel flag", logger.ErrorField(err), logger.Field("run_id", runID))
		return false
	}
	return cancelled
}

// processItem claims the discussion and runs the remaining stages for it strictly in order.
func (o *orchestrator) processItem(ctx context.Context, owner string, item workItem, rec *runRecorder) (result dto.ItemResult) {
	result = dto.ItemResult{DiscussionID: item.discussionID}
	defer func() {
		if r := recover(); r != nil {
			result.Status = dto.ItemFailed
			result.Error = fmt.Sprintf("discussion %d: panic: %v", item.discussionID, r)
		}
	}()

	claimed, err := o.claims.Acquire(ctx, item.discussionID, owner, o.cfg.ClaimTTL)
	if err != nil {
		result.Status = dto.ItemFailed
		result.Stage = "claim"
		result.Error = err.Error()
		return result
	}
	if !claimed {
		result.Status = dto.ItemSkipped
		result.Stage = "claim"
		return result
	}
	defer func() {
		if err := o.claims.Release(context.WithoutCancel(ctx), item.discussionID, owner); err != nil {
			o.logger.Warn("Failed to release claim", logger.ErrorField(err), logger.Field("discussion_id", item.discussionID))
		}
	}()

	if item.problem != nil {
		if !item.requested {
			current, err := o.problems.FindByID(ctx, item.problem.ID)
			if err != nil {
				result.Status = dto.ItemFailed
				result.Error = fmt.Sprintf("problem %d: %v", item.problem.ID, err)
				return result
			}
			if current.AnalysisTier != entity.TierBasic {
				// analysed by another run between listing and claiming
				result.ProblemID = current.ID
				result.Status = dto.ItemSkipped
				return result
			}
			item.problem = current
		}
		return o.runMarket(ctx, item.problem, result, rec)
	}

	discussion, err := o.discussions.FindByID(ctx, item.discussionID)
	if err != nil {
		result.Status = dto.ItemFailed
		result.Error = fmt.Sprintf("discussion %d: %v", item.discussionID, err)
		return result
	}
	if discussion.IsAnalyzed {
		// finished by another run between listing and claiming
		result.Status = dto.ItemSkipped
		return result
	}

	if discussion.PassedFilter == nil {
		passed, err := o.filter.Run(ctx, discussion)
		if err != nil {
			o.logger.Warn("Filter failed", logger.ErrorField(err), logger.Field("discussion_id", discussion.ID))
			rec.stage(func(c *dto.StageCounters) { c.FilterFailed++ })
			result.Status = dto.ItemFailed
			result.Stage = "filter"
			result.Error = fmt.Sprintf("filter: discussion %d: %v", discussion.ID, err)
			return result
		}
		if !passed {
			rec.stage(func(c *dto.StageCounters) { c.FilterRejected++ })
			result.Status = dto.ItemRejected
			result.Stage = "filter"
			return result
		}
		rec.stage(func(c *dto.StageCounters) { c.FilterPassed++ })
	}

	problem, err := o.deep.Run(ctx, discussion)
	if err != nil {
		o.logger.Error("Extraction failed", logger.ErrorField(err), logger.Field("discussion_id", discussion.ID))
		rec.stage(func(c *dto.StageCounters) { c.DeepFailed++ })
		result.Status = dto.ItemFailed
		result.Stage = "deep"
		result.Error = fmt.Sprintf("extraction failed for discussion %d: %v", discussion.ID, err)
		return result
	}
	rec.stage(func(c *dto.StageCounters) { c.DeepSucceeded++ })
	rec.update(func(s *dto.RunSummary) { s.ProblemsCreated++ })

	result.ProblemID = problem.ID
	result.Status = dto.ItemAnalyzed
	return o.runMarket(ctx, problem, result, rec)
}

func (o *orchestrator) runMarket(ctx context.Context, problem *entity.Problem, result dto.ItemResult, rec *runRecorder) dto.ItemResult {
	result.ProblemID = problem.ID
	if result.Status == "" {
		result.Status = dto.ItemFailed
	}

	outcome, err := o.market.Run(ctx, problem)
	if err != nil {
		o.logger.Error("Market analysis failed", logger.ErrorField(err), logger.Field("problem_id", problem.ID))
		rec.stage(func(c *dto.StageCounters) { c.MarketFailed++ })
		result.Stage = "market"
		result.Error = fmt.Sprintf("market analysis failed for problem %d: %v", problem.ID, err)
		return result
	}

	for _, w := range outcome.Warnings {
		rec.warn(w)
	}
	rec.stage(func(c *dto.StageCounters) {
		c.MarketSuccess++
		if outcome.Degraded {
			c.MarketDegraded++
		}
	})

	result.Status = dto.ItemMarket
	result.Stage = ""
	if outcome.Score != nil {
		result.OverallScore = outcome.Score.OverallConfidenceScore
	}
	return result
}
