package repository

import (
	"context"
	"database/sql"
	"time"

	"golang-idea-radar/internal/entity"

	"gorm.io/gorm"
)

// GroupCount is one row of a GROUP BY count.
type GroupCount struct {
	Key   string `gorm:"column:group_key"`
	Count int64
}

// SourceActivity is a source together with its discussion count.
type SourceActivity struct {
	Name             string
	Type             string
	IsActive         bool
	LastScraped      sql.NullTime
	DiscussionsCount int64
}

// StatsRepository runs the aggregate queries behind the dashboard.
type StatsRepository interface {
	Ping(ctx context.Context) error
	CountDiscussions(ctx context.Context, since *time.Time) (int64, error)
	CountProblems(ctx context.Context, since *time.Time) (int64, error)
	CountIdeas(ctx context.Context) (int64, error)
	CountStarred(ctx context.Context) (int64, error)
	CountByTier(ctx context.Context) ([]GroupCount, error)
	CountByCardStatus(ctx context.Context) ([]GroupCount, error)
	ScoreColumns(ctx context.Context) ([]entity.OverallScore, error)
	TopProblems(ctx context.Context, limit int) ([]entity.Problem, error)
	SourceActivity(ctx context.Context) ([]SourceActivity, error)
	DiscussionTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	ProblemTimes(ctx context.Context, since time.Time) ([]time.Time, error)
}

// NewStatsRepository creates a new GORM-based stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

type statsRepository struct {
	db *gorm.DB
}

func (r *statsRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *statsRepository) CountDiscussions(ctx context.Context, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Discussion{})
	if since != nil {
		q = q.Where("scraped_at >= ?", *since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *statsRepository) CountProblems(ctx context.Context, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Problem{})
	if since != nil {
		q = q.Where("extracted_at >= ?", *since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *statsRepository) CountIdeas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.StartupIdea{}).Count(&n).Error
	return n, err
}

func (r *statsRepository) CountStarred(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Problem{}).Where("is_starred = ?", true).Count(&n).Error
	return n, err
}

func (r *statsRepository) CountByTier(ctx context.Context) ([]GroupCount, error) {
	return r.groupProblems(ctx, "analysis_tier")
}

func (r *statsRepository) CountByCardStatus(ctx context.Context) ([]GroupCount, error) {
	return r.groupProblems(ctx, "card_status")
}

func (r *statsRepository) groupProblems(ctx context.Context, column string) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&entity.Problem{}).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

// ScoreColumns returns only the market and overall columns of every score row.
func (r *statsRepository) ScoreColumns(ctx context.Context) ([]entity.OverallScore, error) {
	var scores []entity.OverallScore
	err := r.db.WithContext(ctx).
		Select("market_score", "overall_confidence_score").
		Find(&scores).Error
	return scores, err
}

// TopProblems returns the highest scored problems, skipping unscored ones.
func (r *statsRepository) TopProblems(ctx context.Context, limit int) ([]entity.Problem, error) {
	var problems []entity.Problem
	err := r.db.WithContext(ctx).
		Joins("JOIN overall_scores ON overall_scores.problem_id = problems.id").
		Where("overall_scores.overall_confidence_score IS NOT NULL").
		Order("overall_scores.overall_confidence_score DESC").
		Order("problems.id").
		Limit(limit).
		Preload("OverallScore").
		Preload("Discussion").
		Find(&problems).Error
	return problems, err
}

func (r *statsRepository) SourceActivity(ctx context.Context) ([]SourceActivity, error) {
	var rows []SourceActivity
	err := r.db.WithContext(ctx).
		Model(&entity.Source{}).
		Select("sources.name, sources.type, sources.is_active, sources.last_scraped, COUNT(discussions.id) AS discussions_count").
		Joins("LEFT JOIN discussions ON discussions.source_id = sources.id").
		Group("sources.id, sources.name, sources.type, sources.is_active, sources.last_scraped").
		Order("sources.name").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) DiscussionTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&entity.Discussion{}).
		Where("scraped_at >= ?", since).
		Pluck("scraped_at", &times).Error
	return times, err
}

func (r *statsRepository) ProblemTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&entity.Problem{}).
		Where("extracted_at >= ?", since).
		Pluck("extracted_at", &times).Error
	return times, err
}
