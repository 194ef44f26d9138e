package repository

import (
	"context"
	"errors"
	"testing"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func extraction(severity, ideas int) *dto.ProblemExtraction {
	e := &dto.ProblemExtraction{
		ProblemStatement: "Freelancers lose hours chasing unpaid invoices",
		Severity:         severity,
		TargetAudience:   "freelance designers",
		AudienceType:     entity.AudienceEntrepreneurs,
		CurrentSolutions: "spreadsheets",
		WhyTheyFail:      "manual follow-ups",
	}
	for i := 0; i < ideas; i++ {
		e.Ideas = append(e.Ideas, dto.IdeaExtraction{
			Title:        "Idea",
			Description:  "Automated reminders",
			CoreFeatures: []string{"reminders", "late fees"},
			Tags:         []string{"fintech"},
		})
	}
	return e
}

func seedDiscussion(t *testing.T, db *gorm.DB) *entity.Discussion {
	t.Helper()
	src := testutil.SeedSource(t, db, "reddit-freelance", entity.SourceTypeReddit)
	return ingest(t, NewDiscussionRepository(db), src.ID, "https://reddit.com/r/freelance/comments/1", 10)
}

func failIdeaInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_ideas", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "startup_ideas" {
			_ = tx.AddError(errors.New("forced idea insert failure"))
		}
	}))
}

func TestSaveExtraction(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	problem, err := repo.SaveExtraction(ctx, d.ID, extraction(4, 2))
	require.NoError(t, err)
	assert.Equal(t, entity.TierBasic, problem.AnalysisTier)
	assert.Len(t, problem.StartupIdeas, 2)

	n, err := repo.CountIdeas(ctx, problem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	score, err := repo.FindOverallScore(ctx, problem.ID)
	require.NoError(t, err)
	assert.Nil(t, score.MarketScore)
	assert.Nil(t, score.OverallConfidenceScore)
	assert.Equal(t, entity.TierBasic, score.AnalysisTier)

	stored, err := NewDiscussionRepository(db).FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAnalyzed)

	var idea entity.StartupIdea
	require.NoError(t, db.Where("problem_id = ?", problem.ID).First(&idea).Error)
	assert.Equal(t, entity.StringList{"reminders", "late fees"}, idea.CoreFeatures)
}

func TestSaveExtraction_ReplacesIdeasKeepsCuration(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	first, err := repo.SaveExtraction(ctx, d.ID, extraction(4, 2))
	require.NoError(t, err)
	require.NoError(t, db.Model(&entity.Problem{}).Where("id = ?", first.ID).
		Updates(map[string]interface{}{"is_starred": true, "card_status": entity.CardInReview}).Error)

	second, err := repo.SaveExtraction(ctx, d.ID, extraction(7, 3))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	n, err := repo.CountIdeas(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	stored, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsStarred)
	assert.Equal(t, entity.CardInReview, stored.CardStatus)
	require.NotNil(t, stored.Severity)
	assert.Equal(t, 7, *stored.Severity)
}

func TestSaveExtraction_AtomicIdeaBatch(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	failIdeaInserts(t, db)

	_, err := repo.SaveExtraction(context.Background(), d.ID, extraction(5, 3))
	require.Error(t, err)

	var problems, ideas, scores int64
	require.NoError(t, db.Model(&entity.Problem{}).Count(&problems).Error)
	require.NoError(t, db.Model(&entity.StartupIdea{}).Count(&ideas).Error)
	require.NoError(t, db.Model(&entity.OverallScore{}).Count(&scores).Error)
	assert.Zero(t, problems)
	assert.Zero(t, ideas)
	assert.Zero(t, scores)

	stored, err := NewDiscussionRepository(db).FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAnalyzed)
}

func TestSaveExtraction_FailedReplaceKeepsOldBatch(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	problem, err := repo.SaveExtraction(ctx, d.ID, extraction(4, 2))
	require.NoError(t, err)

	failIdeaInserts(t, db)
	_, err = repo.SaveExtraction(ctx, d.ID, extraction(9, 4))
	require.Error(t, err)

	n, err := repo.CountIdeas(ctx, problem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	stored, err := repo.FindByID(ctx, problem.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, *stored.Severity)
}

func marketAnalysis(problemID uint, score int) *entity.MarketingAnalysis {
	return &entity.MarketingAnalysis{
		ProblemID:      problemID,
		TAM:            "$2B",
		Competitors:    []byte(`[]`),
		GTMStrategy:    []byte(`{}`),
		TargetSegments: entity.StringList{"designers"},
		MarketScore:    score,
	}
}

func TestSaveMarketAnalysis_Scores(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	problem, err := repo.SaveExtraction(ctx, d.ID, extraction(4, 2))
	require.NoError(t, err)

	score, err := repo.SaveMarketAnalysis(ctx, marketAnalysis(problem.ID, 80))
	require.NoError(t, err)
	require.NotNil(t, score.OverallConfidenceScore)
	assert.Equal(t, 68, *score.OverallConfidenceScore)
	assert.Equal(t, entity.TierDeep, score.AnalysisTier)

	// severity change recomputes the score and never lowers the tier
	_, err = repo.SaveExtraction(ctx, d.ID, extraction(9, 2))
	require.NoError(t, err)

	stored, err := repo.FindOverallScore(ctx, problem.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OverallConfidenceScore)
	assert.Equal(t, 83, *stored.OverallConfidenceScore)
	assert.Equal(t, entity.TierDeep, stored.AnalysisTier)

	reloaded, err := repo.FindByID(ctx, problem.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TierDeep, reloaded.AnalysisTier)
}

func TestSaveMarketAnalysis_Overwrites(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	problem, err := repo.SaveExtraction(ctx, d.ID, extraction(5, 2))
	require.NoError(t, err)

	_, err = repo.SaveMarketAnalysis(ctx, marketAnalysis(problem.ID, 40))
	require.NoError(t, err)
	second := marketAnalysis(problem.ID, 90)
	second.TAM = "$10B"
	_, err = repo.SaveMarketAnalysis(ctx, second)
	require.NoError(t, err)

	var rows []entity.MarketingAnalysis
	require.NoError(t, db.Where("problem_id = ?", problem.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 90, rows[0].MarketScore)
	assert.Equal(t, "$10B", rows[0].TAM)

	_, err = repo.SaveMarketAnalysis(ctx, marketAnalysis(12345, 50))
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestSetTier_Monotonic(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	problem, err := repo.SaveExtraction(ctx, d.ID, extraction(5, 2))
	require.NoError(t, err)

	require.NoError(t, repo.SetTier(ctx, problem.ID, entity.TierDeep))
	require.NoError(t, repo.SetTier(ctx, problem.ID, entity.TierDeep))

	err = repo.SetTier(ctx, problem.ID, entity.TierBasic)
	assert.True(t, errors.Is(err, entity.ErrTierDowngrade))
	err = repo.SetTier(ctx, problem.ID, entity.TierNone)
	assert.True(t, errors.Is(err, entity.ErrTierDowngrade))

	stored, err := repo.FindByID(ctx, problem.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TierDeep, stored.AnalysisTier)
}

func TestFindAwaitingMarket(t *testing.T) {
	db := testutil.NewDB(t)
	d := seedDiscussion(t, db)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	problem, err := repo.SaveExtraction(ctx, d.ID, extraction(5, 2))
	require.NoError(t, err)

	awaiting, err := repo.FindAwaitingMarket(ctx, []uint{d.SourceID}, 10)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, problem.ID, awaiting[0].ID)
	require.NotNil(t, awaiting[0].Discussion)

	_, err = repo.SaveMarketAnalysis(ctx, marketAnalysis(problem.ID, 60))
	require.NoError(t, err)

	awaiting, err = repo.FindAwaitingMarket(ctx, []uint{d.SourceID}, 10)
	require.NoError(t, err)
	assert.Empty(t, awaiting)
}
