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

// SourceRepository defines the interface for source data operations.
type SourceRepository interface {
	FindActive(ctx context.Context) ([]entity.Source, error)
	FindByName(ctx context.Context, name string) (*entity.Source, error)
	EnsureSeeded(ctx context.Context, sources []entity.Source) (int, error)
	TouchLastScraped(ctx context.Context, id uint) error
}

// NewSourceRepository creates a new GORM-based source repository.
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

type sourceRepository struct {
	db *gorm.DB
}

// FindActive returns every active source ordered by id.
func (r *sourceRepository) FindActive(ctx context.Context) ([]entity.Source, error) {
	var sources []entity.Source
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// FindByName returns the source with the given name.
func (r *sourceRepository) FindByName(ctx context.Context, name string) (*entity.Source, error) {
	var source entity.Source
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("source %q: %w", name, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// EnsureSeeded inserts the sources whose names do not exist yet and returns how many were created.
func (r *sourceRepository) EnsureSeeded(ctx context.Context, sources []entity.Source) (int, error) {
	created := 0
	for i := range sources {
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&sources[i])
		if res.Error != nil {
			return created, fmt.Errorf("failed to seed source %s: %w", sources[i].Name, res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}

// TouchLastScraped stamps the source as fetched now.
func (r *sourceRepository) TouchLastScraped(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Source{}).
		Where("id = ?", id).
		Update("last_scraped", utils.TimeNowUTC()).Error
}
