package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *server) backdate(t *testing.T, p *entity.Problem, at time.Time) {
	t.Helper()
	require.NoError(t, s.db.Model(&entity.Discussion{}).Where("id = ?", p.DiscussionID).Update("scraped_at", at).Error)
	require.NoError(t, s.db.Model(p).Update("extracted_at", at).Error)
}

func TestGetStats_Empty(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.StatsResponse](t, rec)

	assert.Zero(t, stats.Totals.Problems)
	assert.Equal(t, map[string]int{"90-100": 0, "70-89": 0, "50-69": 0, "30-49": 0, "0-29": 0}, stats.ScoreDistribution)
	assert.Equal(t, dto.AverageScores{}, stats.AverageScores)
	assert.Empty(t, stats.TopProblems)
	assert.Len(t, stats.CardStatuses, 6)
	assert.Contains(t, rec.Body.String(), `"top_problems":[]`)
}

func TestGetStats(t *testing.T) {
	s := newServer(t)
	hn := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	rd := testutil.SeedSource(t, s.db, "reddit", entity.SourceTypeReddit)

	long := strings.Repeat("x", 150)
	alpha := s.seedProblem(t, problemSeed{statement: "alpha", source: hn, score: intPtr(95), upvotes: 12})
	s.seedProblem(t, problemSeed{statement: long, source: hn, score: intPtr(81), upvotes: 3})
	s.seedProblem(t, problemSeed{statement: "bravo", source: rd, score: intPtr(72)})
	charlie := s.seedProblem(t, problemSeed{statement: "charlie", source: rd})
	delta := s.seedProblem(t, problemSeed{statement: "delta", source: rd, score: intPtr(40), status: entity.CardVerified})

	require.NoError(t, s.db.Model(delta).Update("is_starred", true).Error)
	require.NoError(t, s.db.Create(&entity.StartupIdea{ProblemID: alpha.ID, IdeaTitle: "idea", Description: "d"}).Error)
	s.backdate(t, charlie, time.Now().UTC().AddDate(0, 0, -3))

	rec := s.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.StatsResponse](t, rec)

	assert.Equal(t, dto.StatsTotals{Discussions: 5, Problems: 5, Ideas: 1}, stats.Totals)
	assert.Equal(t, dto.StatsToday{Discussions: 4, Problems: 4}, stats.Today)
	assert.Equal(t, dto.AnalysisTierCounts{Basic: 1, Deep: 4}, stats.AnalysisTiers)
	assert.Equal(t, map[string]int{"90-100": 1, "70-89": 2, "50-69": 0, "30-49": 1, "0-29": 0}, stats.ScoreDistribution)
	assert.Equal(t, dto.AverageScores{Overall: 72, Market: 72}, stats.AverageScores)
	assert.EqualValues(t, 1, stats.StarredCount)
	assert.EqualValues(t, 4, stats.CardStatuses["new"])
	assert.EqualValues(t, 1, stats.CardStatuses["verified"])
	assert.EqualValues(t, 0, stats.CardStatuses["rejected"])

	require.Len(t, stats.TopProblems, 4)
	assert.Equal(t, dto.TopProblem{ID: alpha.ID, ProblemStatement: "alpha", Score: 95, Upvotes: 12}, stats.TopProblems[0])
	assert.Equal(t, strings.Repeat("x", 100)+"...", stats.TopProblems[1].ProblemStatement)
	assert.Equal(t, []int{95, 81, 72, 40}, []int{
		stats.TopProblems[0].Score, stats.TopProblems[1].Score, stats.TopProblems[2].Score, stats.TopProblems[3].Score,
	})

	require.Len(t, stats.Sources, 2)
	assert.Equal(t, "hn", stats.Sources[0].Name)
	assert.EqualValues(t, 2, stats.Sources[0].DiscussionsCount)
	assert.EqualValues(t, 3, stats.Sources[1].DiscussionsCount)
	assert.Nil(t, stats.Sources[0].LastScraped)
	assert.True(t, stats.Sources[1].IsActive)
}

func TestGetStats_TopProblemsCapped(t *testing.T) {
	s := newServer(t)
	hn := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	for i, score := range []int{10, 60, 20, 90, 30, 70, 50} {
		s.seedProblem(t, problemSeed{statement: string(rune('a' + i)), source: hn, score: intPtr(score)})
	}

	rec := s.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.StatsResponse](t, rec)

	scores := make([]int, 0, len(stats.TopProblems))
	for _, p := range stats.TopProblems {
		scores = append(scores, p.Score)
	}
	assert.Equal(t, []int{90, 70, 60, 50, 30}, scores)
	assert.Equal(t, 47.1, stats.AverageScores.Overall)
}

func TestGetRecentActivity(t *testing.T) {
	s := newServer(t)
	hn := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)

	now := time.Now().UTC()
	old := s.seedProblem(t, problemSeed{statement: "old", source: hn})
	s.backdate(t, old, now.AddDate(0, 0, -3))
	ancient := s.seedProblem(t, problemSeed{statement: "ancient", source: hn})
	s.backdate(t, ancient, now.AddDate(0, 0, -30))
	s.seedProblem(t, problemSeed{statement: "fresh", source: hn})
	s.seedProblem(t, problemSeed{statement: "fresher", source: hn})

	today := now.Format(time.DateOnly)
	threeDaysAgo := now.AddDate(0, 0, -3).Format(time.DateOnly)

	rec := s.do(t, http.MethodGet, "/api/v1/stats/recent-activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	activity := decode[dto.RecentActivityResponse](t, rec)
	assert.Equal(t, 7, activity.PeriodDays)
	want := []dto.DayCount{{Date: threeDaysAgo, Count: 1}, {Date: today, Count: 2}}
	assert.Equal(t, want, activity.DiscussionsByDay)
	assert.Equal(t, want, activity.ProblemsByDay)

	rec = s.do(t, http.MethodGet, "/api/v1/stats/recent-activity?days=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	activity = decode[dto.RecentActivityResponse](t, rec)
	assert.Equal(t, []dto.DayCount{{Date: today, Count: 2}}, activity.ProblemsByDay)
}

func TestGetRecentActivity_BadDays(t *testing.T) {
	s := newServer(t)

	for _, days := range []string{"abc", "0", "-1", "91"} {
		rec := s.do(t, http.MethodGet, "/api/v1/stats/recent-activity?days="+days, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, days)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "connected", health.Database)
	assert.Equal(t, "connected", health.Redis)

	s.mr.Close()
	rec = s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health = decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "disconnected", health.Redis)
	assert.Equal(t, "connected", health.Database)
}
