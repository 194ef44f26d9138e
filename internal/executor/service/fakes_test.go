package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/internal/executor/strategy"
	"golang-idea-radar/internal/testutil"
	"golang-idea-radar/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type fakeFetcher struct {
	typ   entity.SourceType
	items []dto.RawDiscussion
	err   error
}

func (f *fakeFetcher) GetType() entity.SourceType { return f.typ }

func (f *fakeFetcher) Fetch(_ context.Context, source *entity.Source, limit int) ([]dto.RawDiscussion, error) {
	if f.err != nil {
		return nil, f.err
	}
	items := f.items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]dto.RawDiscussion, len(items))
	for i, it := range items {
		it.SourceID = source.ID
		out[i] = it
	}
	return out, nil
}

// fakeAI passes titles containing "pain", fails extraction for titles containing "broken"
// and scores every market at 80.
type fakeAI struct {
	mu          sync.Mutex
	classify    func(ctx context.Context, title string) (*dto.FilterVerdict, error)
	marketScore int
	marketBand  string
	marketErr   error
	extractions map[string]int
	extractWait time.Duration
}

func newFakeAI() *fakeAI {
	return &fakeAI{marketScore: 80, marketBand: "large", extractions: map[string]int{}}
}

func (f *fakeAI) Classify(ctx context.Context, title, _ string) (*dto.FilterVerdict, error) {
	if f.classify != nil {
		return f.classify(ctx, title)
	}
	return &dto.FilterVerdict{Passed: strings.Contains(title, "pain")}, nil
}

func (f *fakeAI) ExtractProblem(_ context.Context, title, _ string) (*dto.ProblemExtraction, error) {
	f.mu.Lock()
	f.extractions[title]++
	f.mu.Unlock()
	if f.extractWait > 0 {
		time.Sleep(f.extractWait)
	}

	if strings.Contains(title, "broken") {
		return nil, &dto.ValidationError{Field: "severity", Reason: "must be an integer", Raw: `{"severity":"high"}`}
	}
	return &dto.ProblemExtraction{
		ProblemStatement: "Problem behind " + title,
		Severity:         4,
		TargetAudience:   "freelancers",
		AudienceType:     entity.AudienceEntrepreneurs,
		Ideas: []dto.IdeaExtraction{
			{Title: "One", Description: "first"},
			{Title: "Two", Description: "second"},
		},
	}, nil
}

func (f *fakeAI) AnalyzeMarket(_ context.Context, _ *entity.Problem, _ []entity.Competitor) (*dto.MarketExtraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	return &dto.MarketExtraction{
		TAM:         "$1B",
		MarketScore: f.marketScore,
		MarketBand:  f.marketBand,
		GTMStrategy: entity.GTMStrategy{PrimaryChannel: "reddit", SecondaryChannels: []string{"seo"}},
	}, nil
}

func (f *fakeAI) extractionCount(title string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extractions[title]
}

type fakeSearch struct {
	err     error
	results []dto.SearchResult
}

func (f *fakeSearch) Search(_ context.Context, _ string) ([]dto.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type harness struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	redis    *redis.Client
	cfg      *config.Config
	ai       *fakeAI
	search   *fakeSearch
	fetchers []strategy.SourceFetchStrategy
	source   *entity.Source
}

func newHarness(t *testing.T, items []dto.RawDiscussion) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	mr, client := testutil.NewRedis(t)

	return &harness{
		db:    db,
		mr:    mr,
		redis: client,
		cfg: &config.Config{Executor: config.Executor{
			MaxConcurrentRuns: 2,
			WorkerConcurrency: 3,
			ItemTimeout:       5 * time.Second,
			RunTimeout:        time.Minute,
			ClaimTTL:          time.Minute,
			FilterTimeout:     time.Second,
			DigestMinScore:    60,
		}},
		ai: newFakeAI(),
		search: &fakeSearch{results: []dto.SearchResult{
			{Title: "FreshBooks", URL: "https://www.freshbooks.com/", Content: "Invoicing"},
			{Title: "FreshBooks dup", URL: "https://freshbooks.com", Content: "dup"},
			{Title: "Wave", URL: "https://waveapps.com", Content: "Free invoicing"},
		}},
		fetchers: []strategy.SourceFetchStrategy{&fakeFetcher{typ: entity.SourceTypeReddit, items: items}},
		source:   testutil.SeedSource(t, db, "reddit-freelance", entity.SourceTypeReddit),
	}
}

func (h *harness) orchestrator() Orchestrator {
	return NewOrchestrator(h.cfg, logger.NewNop(),
		repository.NewSourceRepository(h.db),
		repository.NewDiscussionRepository(h.db),
		repository.NewProblemRepository(h.db),
		repository.NewClaimRepository(h.redis),
		repository.NewRunControlRepository(h.redis),
		h.ai, h.search, h.fetchers)
}

func rawDiscussions(titles ...string) []dto.RawDiscussion {
	out := make([]dto.RawDiscussion, 0, len(titles))
	for i, title := range titles {
		out = append(out, dto.RawDiscussion{
			URL:     fmt.Sprintf("https://reddit.com/r/freelance/comments/%d", i+1),
			Title:   title,
			Content: "body of " + title,
			Upvotes: 100 - i,
		})
	}
	return out
}

func scrapeRun(id uint) *entity.ScrapeRun {
	return &entity.ScrapeRun{ID: id, Source: entity.SourceSelectorAll, Mode: entity.RunModeScrape, Limit: 25, Analyze: true, Status: entity.RunStatusRunning}
}
