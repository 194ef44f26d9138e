package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/config"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/internal/testutil"
	"golang-idea-radar/pkg/common"
	"golang-idea-radar/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type server struct {
	e     *echo.Echo
	db    *gorm.DB
	mr    *miniredis.Miniredis
	redis *redis.Client
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := testutil.NewDB(t)
	mr, client := testutil.NewRedis(t)
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Scheduler.WaitPollInterval = 10 * time.Millisecond

	log := logger.NewNop()
	problemRepo := repository.NewProblemRepository(db)
	runSvc := service.NewRunService(cfg, client, repository.NewScrapeRunRepository(db), problemRepo, repository.NewRunControlRepository(client), log)

	e := NewRouter(Handlers{
		Problems:  NewProblemHandler(service.NewProblemService(problemRepo, log), runSvc, log),
		Runs:      NewRunHandler(runSvc, log),
		Schedules: NewScheduleHandler(service.NewScheduleService(cfg, repository.NewRunScheduleRepository(db), log), log),
		Sources:   NewSourceHandler(service.NewSourceService(repository.NewSourceRepository(db), log), log),
		Stats:     NewStatsHandler(service.NewStatsService(repository.NewStatsRepository(db), client, log), log),
	})
	return &server{e: e, db: db, mr: mr, redis: client}
}

func (s *server) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type problemSeed struct {
	statement string
	source    *entity.Source
	score     *int
	status    entity.CardStatus
	tags      []string
	upvotes   int
}

func intPtr(v int) *int { return &v }

func (s *server) seedProblem(t *testing.T, seed problemSeed) *entity.Problem {
	t.Helper()

	d := &entity.Discussion{
		SourceID: seed.source.ID,
		URL:      fmt.Sprintf("https://example.com/%s", seed.statement),
		Title:    seed.statement,
		Upvotes:  seed.upvotes,
	}
	require.NoError(t, s.db.Create(d).Error)

	status := seed.status
	if status == "" {
		status = entity.CardNew
	}
	p := &entity.Problem{
		DiscussionID:     d.ID,
		ProblemStatement: seed.statement,
		Severity:         intPtr(5),
		AudienceType:     entity.AudienceEntrepreneurs,
		AnalysisTier:     entity.TierBasic,
		CardStatus:       status,
		UserTags:         entity.StringList(seed.tags),
	}
	if status == entity.CardArchived {
		p.ArchivedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	require.NoError(t, s.db.Create(p).Error)

	if seed.score != nil {
		p.AnalysisTier = entity.TierDeep
		require.NoError(t, s.db.Model(p).Update("analysis_tier", entity.TierDeep).Error)
		require.NoError(t, s.db.Create(&entity.OverallScore{
			ProblemID:              p.ID,
			MarketScore:            intPtr(*seed.score),
			OverallConfidenceScore: seed.score,
			AnalysisTier:           entity.TierDeep,
		}).Error)
	}
	return p
}

func statements(items []dto.ProblemListItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ProblemStatement)
	}
	return out
}

func TestListProblems_Filters(t *testing.T) {
	s := newServer(t)
	hn := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	rd := testutil.SeedSource(t, s.db, "reddit", entity.SourceTypeReddit)

	s.seedProblem(t, problemSeed{statement: "alpha", source: hn, score: intPtr(80), tags: []string{"saas", "b2b"}, upvotes: 5})
	s.seedProblem(t, problemSeed{statement: "bravo", source: rd, score: intPtr(50), status: entity.CardArchived})
	s.seedProblem(t, problemSeed{statement: "charlie", source: rd, upvotes: 40})

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"alpha", "charlie"}},
		{"?include_archived=true", []string{"alpha", "bravo", "charlie"}},
		{"?status=archived", []string{"bravo"}},
		{"?min_score=60", []string{"alpha"}},
		{"?tags=saas,b2b", []string{"alpha"}},
		{"?tags=saas,other", []string{}},
		{"?source_type=reddit", []string{"charlie"}},
		{"?sort_by=engagement", []string{"charlie", "alpha"}},
		{"?analysis_tier=deep", []string{"alpha"}},
		{"?limit=1&skip=1", []string{"charlie"}},
		{"?date_from=2000-01-01&date_to=2999-01-01", []string{"alpha", "charlie"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/problems"+tc.query, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.want, statements(decode[[]dto.ProblemListItem](t, rec)))
		})
	}

	for _, bad := range []string{"?limit=500", "?sort_by=bogus", "?status=done", "?min_score=abc", "?date_from=yesterday"} {
		rec := s.do(t, http.MethodGet, "/api/v1/problems"+bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestListProblems_ItemShape(t *testing.T) {
	s := newServer(t)
	hn := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	s.seedProblem(t, problemSeed{statement: "alpha", source: hn, score: intPtr(72), upvotes: 9})

	rec := s.do(t, http.MethodGet, "/api/v1/problems", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]dto.ProblemListItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, 72, *items[0].OverallScore)
	assert.Equal(t, "hn", items[0].Discussion.SourceName)
	assert.Equal(t, "hackernews", items[0].Discussion.SourceType)
	assert.Equal(t, 9, items[0].Discussion.Upvotes)
	assert.Equal(t, []string{}, items[0].UserTags)
}

func TestGetProblem_RecordsViews(t *testing.T) {
	s := newServer(t)
	src := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	p := s.seedProblem(t, problemSeed{statement: "alpha", source: src})
	require.NoError(t, s.db.Create(&entity.StartupIdea{ProblemID: p.ID, IdeaTitle: "Reminders", Description: "auto", CoreFeatures: entity.StringList{"email"}}).Error)

	path := fmt.Sprintf("/api/v1/problems/%d", p.ID)
	rec := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[dto.ProblemDetail](t, rec)
	assert.Equal(t, "viewed", first.CardStatus)
	assert.Equal(t, 1, first.ViewCount)
	require.True(t, first.FirstViewedAt.Valid)
	require.Len(t, first.StartupIdeas, 1)
	assert.Equal(t, []string{"email"}, first.StartupIdeas[0].CoreFeatures)
	assert.Nil(t, first.MarketingAnalysis)

	// a card in review stays in review on later reads
	rec = s.do(t, http.MethodPatch, path+"/status", dto.UpdateStatusRequest{Status: "in_review"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[dto.ProblemDetail](t, rec)
	assert.Equal(t, "in_review", second.CardStatus)
	assert.Equal(t, 2, second.ViewCount)
	assert.True(t, first.FirstViewedAt.Time.Equal(second.FirstViewedAt.Time))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/problems/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/problems/abc", nil).Code)
}

func TestCuration(t *testing.T) {
	s := newServer(t)
	src := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	p := s.seedProblem(t, problemSeed{statement: "alpha", source: src, score: intPtr(70)})
	path := fmt.Sprintf("/api/v1/problems/%d", p.ID)

	t.Run("back to new is rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path+"/status", dto.UpdateStatusRequest{Status: "new"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(t, http.MethodPatch, path+"/status", dto.UpdateStatusRequest{Status: "shipped"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("tags are normalized", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path+"/tags", dto.TagsRequest{UserTags: []string{" fintech ", "b2b", "fintech", ""}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"fintech", "b2b"}, decode[dto.CurationResponse](t, rec).UserTags)
	})

	t.Run("star and notes", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path+"/star", dto.StarRequest{IsStarred: true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[dto.CurationResponse](t, rec).IsStarred)

		rec = s.do(t, http.MethodPatch, path+"/notes", dto.NotesRequest{UserNotes: "call three agencies"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "call three agencies", decode[dto.CurationResponse](t, rec).UserNotes)

		rec = s.do(t, http.MethodGet, "/api/v1/problems?is_starred=true", nil)
		assert.Len(t, decode[[]dto.ProblemListItem](t, rec), 1)
	})

	t.Run("archive", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path+"/status", dto.UpdateStatusRequest{Status: "archived"})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[dto.CurationResponse](t, rec)
		assert.Equal(t, "archived", resp.CardStatus)
		assert.True(t, resp.ArchivedAt.Valid)

		assert.Empty(t, decode[[]dto.ProblemListItem](t, s.do(t, http.MethodGet, "/api/v1/problems", nil)))
		archived := decode[[]dto.ProblemListItem](t, s.do(t, http.MethodGet, "/api/v1/problems/archive", nil))
		assert.Equal(t, []string{"alpha"}, statements(archived))
	})

	t.Run("pipeline fields untouched", func(t *testing.T) {
		var stored entity.Problem
		require.NoError(t, s.db.First(&stored, p.ID).Error)
		assert.Equal(t, entity.TierDeep, stored.AnalysisTier)
		assert.Equal(t, "alpha", stored.ProblemStatement)
		assert.Equal(t, 5, *stored.Severity)
	})

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPatch, "/api/v1/problems/999/star", dto.StarRequest{IsStarred: true}).Code)
}

func TestGetCompetitors(t *testing.T) {
	s := newServer(t)
	src := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	p := s.seedProblem(t, problemSeed{statement: "alpha", source: src, score: intPtr(70)})
	path := fmt.Sprintf("/api/v1/problems/%d/competitors", p.ID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil).Code)

	require.NoError(t, s.db.Create(&entity.MarketingAnalysis{
		ProblemID:   p.ID,
		Competitors: datatypes.JSON(`[{"name":"FreshBooks","url":"https://freshbooks.com","description":"invoicing"},{"name":"Wave","url":"https://waveapps.com","description":""}]`),
		MarketScore: 70,
		AnalyzedAt:  time.Now().UTC(),
	}).Error)

	rec := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.CompetitorsResponse](t, rec)
	assert.Equal(t, 2, resp.Count)
	assert.Contains(t, string(resp.Competitors), "FreshBooks")

	detail := decode[dto.ProblemDetail](t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/problems/%d", p.ID), nil))
	require.NotNil(t, detail.MarketingAnalysis)
	assert.Equal(t, 2, detail.MarketingAnalysis.CompetitorsCount)
}

func streamPayloads(t *testing.T, client *redis.Client) []entity.ScrapeRun {
	t.Helper()
	msgs, err := client.XRange(context.Background(), common.RedisStreamRunExecution, "-", "+").Result()
	require.NoError(t, err)
	runs := make([]entity.ScrapeRun, 0, len(msgs))
	for _, m := range msgs {
		var run entity.ScrapeRun
		require.NoError(t, json.Unmarshal([]byte(m.Values["payload"].(string)), &run))
		runs = append(runs, run)
	}
	return runs
}

func TestTriggerRun(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/runs", dto.TriggerRunRequest{Source: "hn", Limit: 5})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	run := decode[dto.RunResponse](t, rec)
	assert.NotZero(t, run.ID)
	assert.Equal(t, "running", run.Status)
	assert.Equal(t, "scrape", run.Mode)
	assert.Equal(t, "manual", run.TriggeredBy)
	assert.True(t, run.Analyze)

	var stored entity.ScrapeRun
	require.NoError(t, s.db.First(&stored, run.ID).Error)
	assert.Equal(t, entity.RunStatusRunning, stored.Status)

	payloads := streamPayloads(t, s.redis)
	require.Len(t, payloads, 1)
	assert.Equal(t, run.ID, payloads[0].ID)
	assert.Equal(t, "hn", payloads[0].Source)
	assert.Equal(t, 5, payloads[0].Limit)

	analyze := false
	rec = s.do(t, http.MethodPost, "/api/v1/runs", dto.TriggerRunRequest{Analyze: &analyze})
	require.Equal(t, http.StatusAccepted, rec.Code)
	second := decode[dto.RunResponse](t, rec)
	assert.Equal(t, "all", second.Source)
	assert.Equal(t, 25, second.Limit)
	assert.False(t, second.Analyze)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/runs", dto.TriggerRunRequest{Limit: 9999}).Code)

	history := decode[[]dto.RunResponse](t, s.do(t, http.MethodGet, "/api/v1/runs?limit=10", nil))
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
}

func TestTriggerRun_EnqueueFailureClosesRow(t *testing.T) {
	s := newServer(t)
	s.mr.SetError("ERR forced failure")

	rec := s.do(t, http.MethodPost, "/api/v1/runs", dto.TriggerRunRequest{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var runs []entity.ScrapeRun
	require.NoError(t, s.db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, entity.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].ErrorMessage.String, "enqueue failed")
	assert.True(t, runs[0].CompletedAt.Valid)
}

func TestGetRun_Wait(t *testing.T) {
	s := newServer(t)
	run := decode[dto.RunResponse](t, s.do(t, http.MethodPost, "/api/v1/runs", dto.TriggerRunRequest{}))
	path := fmt.Sprintf("/api/v1/runs/%d", run.ID)

	t.Run("returns running after the wait elapses", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, path+"?wait=50ms", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "running", decode[dto.RunResponse](t, rec).Status)
	})

	t.Run("returns once the run is terminal", func(t *testing.T) {
		go func() {
			time.Sleep(50 * time.Millisecond)
			s.db.Model(&entity.ScrapeRun{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
				"status":            entity.RunStatusCompleted,
				"discussions_found": 10,
				"output":            `{"run_id":1,"warnings":["search degraded"]}`,
			})
		}()
		start := time.Now()
		rec := s.do(t, http.MethodGet, path+"?wait=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[dto.RunResponse](t, rec)
		assert.Equal(t, "completed", got.Status)
		assert.Equal(t, 10, got.DiscussionsFound)
		assert.Contains(t, string(got.Output), "search degraded")
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, path+"?wait=soon", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/runs/999", nil).Code)
}

func TestCancelRun(t *testing.T) {
	s := newServer(t)
	run := decode[dto.RunResponse](t, s.do(t, http.MethodPost, "/api/v1/runs", dto.TriggerRunRequest{}))
	path := fmt.Sprintf("/api/v1/runs/%d/cancel", run.ID)

	rec := s.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	key := fmt.Sprintf("%s%d", common.RedisKeyRunCancel, run.ID)
	assert.True(t, s.mr.Exists(key))
	assert.Greater(t, s.mr.TTL(key), time.Duration(0))

	require.NoError(t, s.db.Model(&entity.ScrapeRun{}).Where("id = ?", run.ID).Update("status", entity.RunStatusFailed).Error)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/runs/999/cancel", nil).Code)
}

func TestTriggerMarketAnalysis(t *testing.T) {
	s := newServer(t)
	src := testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)
	p := s.seedProblem(t, problemSeed{statement: "alpha", source: src})

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/problems/%d/market-analysis", p.ID), nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	run := decode[dto.RunResponse](t, rec)
	assert.Equal(t, "market", run.Mode)
	assert.Equal(t, fmt.Sprint(p.ID), run.ProblemIDs)

	payloads := streamPayloads(t, s.redis)
	require.Len(t, payloads, 1)
	ids, err := payloads[0].ProblemIDList()
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, ids)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/problems/999/market-analysis", nil).Code)
}

func TestSchedules(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/schedules", dto.CreateScheduleRequest{Name: "every six", IntervalHours: 6, Source: "hn", Limit: 10, Analyze: true, IsActive: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.ScheduleResponse](t, rec)
	assert.Equal(t, "@every 6h", created.CronExpression)
	require.True(t, created.NextExecution.Valid)
	assert.WithinDuration(t, time.Now().Add(6*time.Hour), created.NextExecution.Time, time.Minute)

	invalid := []dto.CreateScheduleRequest{
		{Name: "both", CronExpression: "0 * * * *", IntervalHours: 2},
		{Name: "neither"},
		{Name: "bad cron", CronExpression: "every tuesday"},
		{CronExpression: "0 * * * *"},
		{Name: "too many", CronExpression: "0 * * * *", Limit: 100000},
	}
	for _, req := range invalid {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/schedules", req).Code, req.Name)
	}

	dup := s.do(t, http.MethodPost, "/api/v1/schedules", dto.CreateScheduleRequest{Name: "every six", CronExpression: "0 8 * * *"})
	assert.Equal(t, http.StatusConflict, dup.Code)

	path := fmt.Sprintf("/api/v1/schedules/%d", created.ID)
	rec = s.do(t, http.MethodPut, path, dto.UpdateScheduleRequest{Name: "mornings", CronExpression: "0 8 * * *", IsActive: false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.ScheduleResponse](t, rec)
	assert.Equal(t, "0 8 * * *", updated.CronExpression)
	assert.Equal(t, "all", updated.Source)
	assert.False(t, updated.NextExecution.Valid)

	all := decode[[]dto.ScheduleResponse](t, s.do(t, http.MethodGet, "/api/v1/schedules", nil))
	require.Len(t, all, 1)
	assert.Equal(t, "mornings", all[0].Name)

	active := decode[[]dto.ScheduleResponse](t, s.do(t, http.MethodGet, "/api/v1/schedules?active=true", nil))
	assert.Empty(t, active)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/schedules?active=maybe", nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil).Code)
}

func TestListSources(t *testing.T) {
	s := newServer(t)
	testutil.SeedSource(t, s.db, "reddit-saas", entity.SourceTypeReddit)
	testutil.SeedSource(t, s.db, "hn", entity.SourceTypeHackerNews)

	rec := s.do(t, http.MethodGet, "/api/v1/sources", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sources := decode[[]dto.SourceResponse](t, rec)
	require.Len(t, sources, 2)
	assert.Equal(t, "hn", sources[0].Name)
	assert.JSONEq(t, `{}`, string(sources[0].Config))
}
