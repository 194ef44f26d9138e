package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/pkg/utils"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var hiddenStatuses = []entity.CardStatus{entity.CardArchived, entity.CardRejected}

// ProblemRepository serves the card views and the curation mutations.
type ProblemRepository interface {
	List(ctx context.Context, filter dto.ProblemFilter) ([]entity.Problem, error)
	ListArchived(ctx context.Context, skip, limit int) ([]entity.Problem, error)
	FindByID(ctx context.Context, id uint) (*entity.Problem, error)
	FindDetail(ctx context.Context, id uint) (*entity.Problem, error)
	RecordView(ctx context.Context, id uint) error
	UpdateCuration(ctx context.Context, id uint, updates map[string]interface{}) (*entity.Problem, error)
	FindMarketingAnalysis(ctx context.Context, problemID uint) (*entity.MarketingAnalysis, error)
}

// NewProblemRepository creates a new GORM-based problem repository.
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

type problemRepository struct {
	db *gorm.DB
}

func (r *problemRepository) listQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entity.Problem{}).
		Select("problems.*").
		Joins("JOIN discussions ON discussions.id = problems.discussion_id").
		Joins("JOIN sources ON sources.id = discussions.source_id").
		Joins("LEFT JOIN overall_scores ON overall_scores.problem_id = problems.id").
		Preload("Discussion.Source").
		Preload("OverallScore").
		Preload("StartupIdeas")
}

// List returns the cards matching filter. Archived and rejected cards are hidden
// unless a status is requested or IncludeArchived is set.
func (r *problemRepository) List(ctx context.Context, filter dto.ProblemFilter) ([]entity.Problem, error) {
	q := r.listQuery(ctx)

	if filter.Status != "" {
		q = q.Where("problems.card_status = ?", filter.Status)
	} else if !filter.IncludeArchived {
		q = q.Where("problems.card_status NOT IN ?", hiddenStatuses)
	}
	if filter.IsStarred != nil {
		q = q.Where("problems.is_starred = ?", *filter.IsStarred)
	}
	if filter.MinScore != nil {
		q = q.Where("overall_scores.overall_confidence_score >= ?", *filter.MinScore)
	}
	if filter.AudienceType != "" {
		q = q.Where("problems.audience_type = ?", filter.AudienceType)
	}
	if filter.AnalysisTier != "" {
		q = q.Where("problems.analysis_tier = ?", filter.AnalysisTier)
	}
	if filter.SourceType != "" {
		q = q.Where("sources.type = ?", filter.SourceType)
	}
	if filter.DateFrom != nil {
		q = q.Where("problems.extracted_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("problems.extracted_at <= ?", *filter.DateTo)
	}
	if len(filter.Tags) > 0 {
		q = r.whereHasTags(q, filter.Tags)
	}

	switch filter.SortBy {
	case dto.SortByDate:
		q = q.Order("problems.extracted_at DESC")
	case dto.SortBySeverity:
		q = q.Order("problems.severity IS NULL").Order("problems.severity DESC")
	case dto.SortByEngagement:
		q = q.Order("discussions.upvotes DESC")
	default:
		q = q.Order("overall_scores.overall_confidence_score IS NULL").Order("overall_scores.overall_confidence_score DESC")
	}
	q = q.Order("problems.id DESC")

	var problems []entity.Problem
	if err := q.Offset(filter.Skip).Limit(filter.Limit).Find(&problems).Error; err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

// whereHasTags requires every tag. Postgres uses array containment, other
// dialects match the quoted element inside the stored array literal.
func (r *problemRepository) whereHasTags(q *gorm.DB, tags []string) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return q.Where("problems.user_tags @> ?", pq.StringArray(tags))
	}
	for _, tag := range tags {
		q = q.Where("problems.user_tags LIKE ?", `%"`+strings.ReplaceAll(tag, `"`, `\"`)+`"%`)
	}
	return q
}

// ListArchived returns archived and rejected cards, most recently archived first.
func (r *problemRepository) ListArchived(ctx context.Context, skip, limit int) ([]entity.Problem, error) {
	var problems []entity.Problem
	err := r.listQuery(ctx).
		Where("problems.card_status IN ?", hiddenStatuses).
		Order("problems.archived_at IS NULL").
		Order("problems.archived_at DESC").
		Order("problems.id DESC").
		Offset(skip).
		Limit(limit).
		Find(&problems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list archived problems: %w", err)
	}
	return problems, nil
}

// FindByID loads the bare problem row.
func (r *problemRepository) FindByID(ctx context.Context, id uint) (*entity.Problem, error) {
	var problem entity.Problem
	err := r.db.WithContext(ctx).First(&problem, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("problem %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

// FindDetail loads a problem with every relation used by the detail view.
func (r *problemRepository) FindDetail(ctx context.Context, id uint) (*entity.Problem, error) {
	var problem entity.Problem
	err := r.db.WithContext(ctx).
		Preload("Discussion.Source").
		Preload("StartupIdeas", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("MarketingAnalysis").
		Preload("OverallScore").
		First(&problem, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("problem %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

// RecordView bumps the view counter in one statement. The first view moves a new card to viewed.
func (r *problemRepository) RecordView(ctx context.Context, id uint) error {
	now := utils.TimeNowUTC()
	res := r.db.WithContext(ctx).
		Model(&entity.Problem{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"view_count":      gorm.Expr("view_count + 1"),
			"last_viewed_at":  now,
			"first_viewed_at": gorm.Expr("COALESCE(first_viewed_at, ?)", now),
			"card_status":     gorm.Expr("CASE WHEN card_status = ? THEN ? ELSE card_status END", entity.CardNew, entity.CardViewed),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to record view for problem %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("problem %d: %w", id, entity.ErrNotFound)
	}
	return nil
}

// UpdateCuration writes curation columns only and returns the reloaded row.
func (r *problemRepository) UpdateCuration(ctx context.Context, id uint, updates map[string]interface{}) (*entity.Problem, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.Problem{}).Where("id = ?", id).UpdateColumns(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update problem %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// FindMarketingAnalysis loads the market analysis of a problem.
func (r *problemRepository) FindMarketingAnalysis(ctx context.Context, problemID uint) (*entity.MarketingAnalysis, error) {
	var analysis entity.MarketingAnalysis
	err := r.db.WithContext(ctx).Where("problem_id = ?", problemID).First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("marketing analysis for problem %d: %w", problemID, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
