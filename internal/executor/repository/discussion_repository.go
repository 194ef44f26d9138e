package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DiscussionRepository is the deduplicating discussion store.
type DiscussionRepository interface {
	Ingest(ctx context.Context, discussion *entity.Discussion) (bool, error)
	FindByID(ctx context.Context, id uint) (*entity.Discussion, error)
	MarkFiltered(ctx context.Context, id uint, passed bool) error
	MarkAnalyzed(ctx context.Context, id uint) error
	FindPendingBySource(ctx context.Context, sourceID uint, limit int) ([]entity.Discussion, error)
}

// NewDiscussionRepository creates a new GORM-based discussion repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

type discussionRepository struct {
	db *gorm.DB
}

// Ingest canonicalizes the URL and inserts the discussion unless that URL already exists.
// It reports whether a row was created. Existing rows are never modified.
func (r *discussionRepository) Ingest(ctx context.Context, discussion *entity.Discussion) (bool, error) {
	canonical, err := utils.CanonicalURL(discussion.URL)
	if err != nil {
		return false, fmt.Errorf("invalid discussion url: %w", err)
	}
	discussion.URL = canonical
	discussion.Title = utils.SafeText(discussion.Title)
	discussion.Content = utils.CleanToValidUTF8(discussion.Content)
	discussion.PassedFilter = nil
	discussion.IsAnalyzed = false

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
		Create(discussion)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByID returns the discussion with the given id.
func (r *discussionRepository) FindByID(ctx context.Context, id uint) (*entity.Discussion, error) {
	var discussion entity.Discussion
	err := r.db.WithContext(ctx).First(&discussion, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("discussion %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

// MarkFiltered records the filter verdict once. Repeating the same verdict is a no-op,
// a different verdict returns entity.ErrFilterConflict. A rejection is terminal.
func (r *discussionRepository) MarkFiltered(ctx context.Context, id uint, passed bool) error {
	updates := map[string]interface{}{
		"passed_filter": passed,
		"filtered_at":   utils.TimeNowUTC(),
	}
	if !passed {
		updates["is_analyzed"] = true
	}

	res := r.db.WithContext(ctx).Model(&entity.Discussion{}).
		Where("id = ? AND passed_filter IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.PassedFilter != nil && *current.PassedFilter == passed {
		return nil
	}
	return fmt.Errorf("discussion %d: %w", id, entity.ErrFilterConflict)
}

// MarkAnalyzed sets is_analyzed. It never clears it.
func (r *discussionRepository) MarkAnalyzed(ctx context.Context, id uint) error {
	return markDiscussionAnalyzed(r.db.WithContext(ctx), id)
}

// FindPendingBySource returns discussions not yet analyzed that did not fail the filter,
// highest upvotes first. Filter and extraction failures are retried through this query.
func (r *discussionRepository) FindPendingBySource(ctx context.Context, sourceID uint, limit int) ([]entity.Discussion, error) {
	var discussions []entity.Discussion
	q := r.db.WithContext(ctx).
		Where("source_id = ? AND is_analyzed = ? AND (passed_filter IS NULL OR passed_filter = ?)", sourceID, false, true).
		Order("upvotes DESC").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&discussions).Error; err != nil {
		return nil, err
	}
	return discussions, nil
}

func markDiscussionAnalyzed(db *gorm.DB, id uint) error {
	res := db.Model(&entity.Discussion{}).Where("id = ?", id).Update("is_analyzed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("discussion %d: %w", id, entity.ErrNotFound)
	}
	return nil
}
