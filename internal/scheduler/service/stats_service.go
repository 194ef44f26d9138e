package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/internal/scoring"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const (
	topProblemsLimit   = 5
	topStatementLength = 100
	maxActivityDays    = 90
)

// scoreRanges labels the score distribution buckets by band.
var scoreRanges = []struct {
	band  scoring.Band
	label string
}{
	{scoring.BandHuge, "90-100"},
	{scoring.BandLarge, "70-89"},
	{scoring.BandMedium, "50-69"},
	{scoring.BandSmall, "30-49"},
	{scoring.BandTiny, "0-29"},
}

var cardStatuses = []entity.CardStatus{
	entity.CardNew, entity.CardViewed, entity.CardInReview,
	entity.CardVerified, entity.CardArchived, entity.CardRejected,
}

// StatsService builds dashboard aggregates and health reports.
type StatsService interface {
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
	GetRecentActivity(ctx context.Context, days int) (*dto.RecentActivityResponse, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

// NewStatsService creates a new stats service. redisClient may be nil.
func NewStatsService(statsRepo repository.StatsRepository, redisClient *redis.Client, log *logger.Logger) StatsService {
	return &statsService{statsRepo: statsRepo, redis: redisClient, logger: log, now: utils.TimeNowUTC}
}

type statsService struct {
	statsRepo repository.StatsRepository
	redis     *redis.Client
	logger    *logger.Logger
	now       func() time.Time
}

func (s *statsService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	now := s.now()
	midnight := startOfDay(now)
	resp := &dto.StatsResponse{Timestamp: now}

	var err error
	if resp.Totals.Discussions, err = s.statsRepo.CountDiscussions(ctx, nil); err != nil {
		return nil, s.fail("count discussions", err)
	}
	if resp.Totals.Problems, err = s.statsRepo.CountProblems(ctx, nil); err != nil {
		return nil, s.fail("count problems", err)
	}
	if resp.Totals.Ideas, err = s.statsRepo.CountIdeas(ctx); err != nil {
		return nil, s.fail("count ideas", err)
	}
	if resp.Today.Discussions, err = s.statsRepo.CountDiscussions(ctx, &midnight); err != nil {
		return nil, s.fail("count today's discussions", err)
	}
	if resp.Today.Problems, err = s.statsRepo.CountProblems(ctx, &midnight); err != nil {
		return nil, s.fail("count today's problems", err)
	}
	if resp.StarredCount, err = s.statsRepo.CountStarred(ctx); err != nil {
		return nil, s.fail("count starred problems", err)
	}

	tiers, err := s.statsRepo.CountByTier(ctx)
	if err != nil {
		return nil, s.fail("count tiers", err)
	}
	for _, row := range tiers {
		switch entity.AnalysisTier(row.Key) {
		case entity.TierBasic:
			resp.AnalysisTiers.Basic = row.Count
		case entity.TierDeep:
			resp.AnalysisTiers.Deep = row.Count
		}
	}

	statuses, err := s.statsRepo.CountByCardStatus(ctx)
	if err != nil {
		return nil, s.fail("count card statuses", err)
	}
	resp.CardStatuses = make(map[string]int64, len(cardStatuses))
	for _, st := range cardStatuses {
		resp.CardStatuses[string(st)] = 0
	}
	for _, row := range statuses {
		if entity.CardStatus(row.Key).Valid() {
			resp.CardStatuses[row.Key] = row.Count
		}
	}

	scores, err := s.statsRepo.ScoreColumns(ctx)
	if err != nil {
		return nil, s.fail("load scores", err)
	}
	resp.ScoreDistribution, resp.AverageScores = summariseScores(scores)

	top, err := s.statsRepo.TopProblems(ctx, topProblemsLimit)
	if err != nil {
		return nil, s.fail("load top problems", err)
	}
	resp.TopProblems = make([]dto.TopProblem, 0, len(top))
	for _, p := range top {
		item := dto.TopProblem{ID: p.ID, ProblemStatement: shorten(p.ProblemStatement)}
		if p.OverallScore != nil && p.OverallScore.OverallConfidenceScore != nil {
			item.Score = *p.OverallScore.OverallConfidenceScore
		}
		if p.Discussion != nil {
			item.Upvotes = p.Discussion.Upvotes
		}
		resp.TopProblems = append(resp.TopProblems, item)
	}

	sources, err := s.statsRepo.SourceActivity(ctx)
	if err != nil {
		return nil, s.fail("load source activity", err)
	}
	resp.Sources = make([]dto.SourceStats, 0, len(sources))
	for _, src := range sources {
		item := dto.SourceStats{
			Name:             src.Name,
			Type:             src.Type,
			DiscussionsCount: src.DiscussionsCount,
			IsActive:         src.IsActive,
		}
		if src.LastScraped.Valid {
			t := src.LastScraped.Time
			item.LastScraped = &t
		}
		resp.Sources = append(resp.Sources, item)
	}
	return resp, nil
}

func (s *statsService) GetRecentActivity(ctx context.Context, days int) (*dto.RecentActivityResponse, error) {
	if days < 1 || days > maxActivityDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxActivityDays)
	}
	since := s.now().AddDate(0, 0, -days)

	discussions, err := s.statsRepo.DiscussionTimes(ctx, since)
	if err != nil {
		return nil, s.fail("load discussion activity", err)
	}
	problems, err := s.statsRepo.ProblemTimes(ctx, since)
	if err != nil {
		return nil, s.fail("load problem activity", err)
	}
	return &dto.RecentActivityResponse{
		PeriodDays:       days,
		DiscussionsByDay: countByDay(discussions),
		ProblemsByDay:    countByDay(problems),
	}, nil
}

func (s *statsService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	resp := &dto.HealthResponse{Status: "healthy", Database: "connected", Timestamp: s.now()}
	healthy := true
	if err := s.statsRepo.Ping(ctx); err != nil {
		s.logger.Warn("Database ping failed", logger.ErrorField(err))
		resp.Database = "disconnected"
		healthy = false
	}
	if s.redis != nil {
		resp.Redis = "connected"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.logger.Warn("Redis ping failed", logger.ErrorField(err))
			resp.Redis = "disconnected"
			healthy = false
		}
	}
	if !healthy {
		resp.Status = "unhealthy"
		return resp, ErrUnhealthy
	}
	return resp, nil
}

func (s *statsService) fail(what string, err error) error {
	s.logger.Error("Failed to "+what, logger.ErrorField(err))
	return err
}

func summariseScores(scores []entity.OverallScore) (map[string]int, dto.AverageScores) {
	dist := make(map[string]int, len(scoreRanges))
	for _, r := range scoreRanges {
		dist[r.label] = 0
	}
	var overallSum, marketSum, overallN, marketN int
	for _, sc := range scores {
		if sc.OverallConfidenceScore != nil {
			v := *sc.OverallConfidenceScore
			band := scoring.BandOf(v)
			for _, r := range scoreRanges {
				if r.band == band {
					dist[r.label]++
					break
				}
			}
			overallSum += v
			overallN++
		}
		if sc.MarketScore != nil {
			marketSum += *sc.MarketScore
			marketN++
		}
	}
	return dist, dto.AverageScores{
		Overall: roundAverage(overallSum, overallN),
		Market:  roundAverage(marketSum, marketN),
	}
}

func roundAverage(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

func shorten(statement string) string {
	cut := utils.Truncate(statement, topStatementLength)
	if cut == statement {
		return statement
	}
	return cut + "..."
}

// countByDay buckets timestamps by UTC date in ascending order.
func countByDay(times []time.Time) []dto.DayCount {
	counts := make(map[string]int)
	for _, t := range times {
		counts[t.UTC().Format(time.DateOnly)]++
	}
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]dto.DayCount, 0, len(dates))
	for _, d := range dates {
		out = append(out, dto.DayCount{Date: d, Count: counts[d]})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
