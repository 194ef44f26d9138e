package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/internal/scoring"
	"golang-idea-radar/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProblemRepository persists analysis results. Every write that changes severity
// or market score recomputes the overall score in the same transaction.
type ProblemRepository interface {
	SaveExtraction(ctx context.Context, discussionID uint, extraction *dto.ProblemExtraction) (*entity.Problem, error)
	SaveMarketAnalysis(ctx context.Context, analysis *entity.MarketingAnalysis) (*entity.OverallScore, error)
	SetTier(ctx context.Context, problemID uint, tier entity.AnalysisTier) error
	FindByID(ctx context.Context, id uint) (*entity.Problem, error)
	FindByIDs(ctx context.Context, ids []uint) ([]entity.Problem, error)
	FindAwaitingMarket(ctx context.Context, sourceIDs []uint, limit int) ([]entity.Problem, error)
	FindOverallScore(ctx context.Context, problemID uint) (*entity.OverallScore, error)
	CountIdeas(ctx context.Context, problemID uint) (int64, error)
}

// NewProblemRepository creates a new GORM-based problem repository.
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

type problemRepository struct {
	db *gorm.DB
}

// SaveExtraction upserts the problem for a discussion, replaces its idea batch, raises the tier
// to basic, recomputes the score and marks the discussion analyzed, all in one transaction.
// Curation fields and the current tier of an existing problem are left untouched.
func (r *problemRepository) SaveExtraction(ctx context.Context, discussionID uint, extraction *dto.ProblemExtraction) (*entity.Problem, error) {
	var saved entity.Problem
	severity := extraction.Severity

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var problem entity.Problem
		err := tx.Where("discussion_id = ?", discussionID).First(&problem).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			problem = entity.Problem{
				DiscussionID:     discussionID,
				ProblemStatement: extraction.ProblemStatement,
				Severity:         &severity,
				TargetAudience:   extraction.TargetAudience,
				AudienceType:     extraction.AudienceType,
				CurrentSolutions: extraction.CurrentSolutions,
				WhyTheyFail:      extraction.WhyTheyFail,
				AnalysisTier:     entity.TierNone,
				CardStatus:       entity.CardNew,
				UserTags:         entity.StringList{},
			}
			if err := tx.Create(&problem).Error; err != nil {
				return fmt.Errorf("failed to create problem: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load problem: %w", err)
		default:
			if err := tx.Model(&problem).Updates(map[string]interface{}{
				"problem_statement": extraction.ProblemStatement,
				"severity":          severity,
				"target_audience":   extraction.TargetAudience,
				"audience_type":     extraction.AudienceType,
				"current_solutions": extraction.CurrentSolutions,
				"why_they_fail":     extraction.WhyTheyFail,
			}).Error; err != nil {
				return fmt.Errorf("failed to update problem: %w", err)
			}
			problem.Severity = &severity
		}

		if err := tx.Where("problem_id = ?", problem.ID).Delete(&entity.StartupIdea{}).Error; err != nil {
			return fmt.Errorf("failed to delete old ideas: %w", err)
		}
		ideas := make([]entity.StartupIdea, 0, len(extraction.Ideas))
		for _, idea := range extraction.Ideas {
			ideas = append(ideas, entity.StartupIdea{
				ProblemID:        problem.ID,
				IdeaTitle:        idea.Title,
				Description:      idea.Description,
				Approach:         idea.Approach,
				BusinessModel:    idea.BusinessModel,
				ValueProposition: idea.ValueProposition,
				CoreFeatures:     entity.StringList(idea.CoreFeatures),
				Monetization:     idea.Monetization,
				Tags:             entity.StringList(idea.Tags),
			})
		}
		if len(ideas) > 0 {
			if err := tx.Create(&ideas).Error; err != nil {
				return fmt.Errorf("failed to insert ideas: %w", err)
			}
		}

		tier, err := ensureTier(tx, problem.ID, entity.TierBasic)
		if err != nil {
			return err
		}
		problem.AnalysisTier = tier

		var marketScore *int
		var existing entity.MarketingAnalysis
		err = tx.Select("market_score").Where("problem_id = ?", problem.ID).First(&existing).Error
		if err == nil {
			marketScore = &existing.MarketScore
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load market score: %w", err)
		}
		if _, err := upsertOverallScore(tx, problem.ID, marketScore, problem.Severity, tier); err != nil {
			return err
		}

		if err := markDiscussionAnalyzed(tx, discussionID); err != nil {
			return err
		}

		problem.StartupIdeas = ideas
		saved = problem
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SaveMarketAnalysis overwrites the market analysis of a problem, recomputes the score
// and raises the tier to deep in one transaction.
func (r *problemRepository) SaveMarketAnalysis(ctx context.Context, analysis *entity.MarketingAnalysis) (*entity.OverallScore, error) {
	var score *entity.OverallScore

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var problem entity.Problem
		if err := tx.First(&problem, analysis.ProblemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("problem %d: %w", analysis.ProblemID, entity.ErrNotFound)
			}
			return fmt.Errorf("failed to load problem: %w", err)
		}

		if analysis.AnalyzedAt.IsZero() {
			analysis.AnalyzedAt = utils.TimeNowUTC()
		}
		analysis.ID = 0
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "problem_id"}},
			UpdateAll: true,
		}).Create(analysis).Error; err != nil {
			return fmt.Errorf("failed to save market analysis: %w", err)
		}

		tier, err := ensureTier(tx, problem.ID, entity.TierDeep)
		if err != nil {
			return err
		}

		market := analysis.MarketScore
		score, err = upsertOverallScore(tx, problem.ID, &market, problem.Severity, tier)
		return err
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// SetTier writes an explicit tier. Lowering the tier returns entity.ErrTierDowngrade.
func (r *problemRepository) SetTier(ctx context.Context, problemID uint, tier entity.AnalysisTier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := ensureTier(tx, problemID, tier)
		if err != nil {
			return err
		}
		if current != tier {
			return fmt.Errorf("problem %d is %s, cannot set %s: %w", problemID, current, tier, entity.ErrTierDowngrade)
		}
		return tx.Model(&entity.OverallScore{}).Where("problem_id = ?", problemID).Update("analysis_tier", tier).Error
	})
}

// FindByID returns a problem with its discussion.
func (r *problemRepository) FindByID(ctx context.Context, id uint) (*entity.Problem, error) {
	var problem entity.Problem
	err := r.db.WithContext(ctx).Preload("Discussion").First(&problem, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("problem %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

// FindByIDs returns the listed problems with their discussions.
func (r *problemRepository) FindByIDs(ctx context.Context, ids []uint) ([]entity.Problem, error) {
	var problems []entity.Problem
	if len(ids) == 0 {
		return problems, nil
	}
	if err := r.db.WithContext(ctx).Preload("Discussion").Where("id IN ?", ids).Order("id").Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

// FindAwaitingMarket returns basic-tier problems from the given sources that have no market analysis yet.
func (r *problemRepository) FindAwaitingMarket(ctx context.Context, sourceIDs []uint, limit int) ([]entity.Problem, error) {
	var problems []entity.Problem
	if len(sourceIDs) == 0 {
		return problems, nil
	}
	q := r.db.WithContext(ctx).
		Preload("Discussion").
		Joins("JOIN discussions d ON d.id = problems.discussion_id").
		Where("problems.analysis_tier = ?", entity.TierBasic).
		Where("d.source_id IN ?", sourceIDs).
		Where("NOT EXISTS (SELECT 1 FROM marketing_analysis m WHERE m.problem_id = problems.id)").
		Order("problems.severity DESC").
		Order("problems.id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

// FindOverallScore returns the cached score row for a problem.
func (r *problemRepository) FindOverallScore(ctx context.Context, problemID uint) (*entity.OverallScore, error) {
	var score entity.OverallScore
	err := r.db.WithContext(ctx).Where("problem_id = ?", problemID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("score for problem %d: %w", problemID, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// CountIdeas returns the number of stored ideas for a problem.
func (r *problemRepository) CountIdeas(ctx context.Context, problemID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.StartupIdea{}).Where("problem_id = ?", problemID).Count(&n).Error
	return n, err
}

// ensureTier raises the tier to at least target with a conditional update and returns the resulting tier.
func ensureTier(tx *gorm.DB, problemID uint, target entity.AnalysisTier) (entity.AnalysisTier, error) {
	if target.Rank() < 0 {
		return "", fmt.Errorf("unknown analysis tier %q", target)
	}

	res := tx.Model(&entity.Problem{}).
		Where("id = ? AND analysis_tier IN ?", problemID, tierNames(target.Below())).
		Update("analysis_tier", target)
	if res.Error != nil {
		return "", fmt.Errorf("failed to raise tier: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return target, nil
	}

	var problem entity.Problem
	if err := tx.Select("id", "analysis_tier").First(&problem, problemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("problem %d: %w", problemID, entity.ErrNotFound)
		}
		return "", err
	}
	return problem.AnalysisTier, nil
}

func tierNames(tiers []entity.AnalysisTier) []string {
	names := make([]string, 0, len(tiers))
	for _, t := range tiers {
		names = append(names, string(t))
	}
	if len(names) == 0 {
		// IN () is invalid SQL; no tier is below none
		names = append(names, "")
	}
	return names
}

func upsertOverallScore(tx *gorm.DB, problemID uint, market, severity *int, tier entity.AnalysisTier) (*entity.OverallScore, error) {
	score := entity.OverallScore{
		ProblemID:              problemID,
		MarketScore:            market,
		OverallConfidenceScore: scoring.Overall(market, severity),
		AnalysisTier:           tier,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "problem_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"market_score", "overall_confidence_score", "analysis_tier", "updated_at"}),
	}).Create(&score).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save overall score: %w", err)
	}
	return &score, nil
}
