package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-idea-radar/internal/entity"

	"gorm.io/gorm"
)

// ScrapeRunRepository defines the run log operations used by the executor.
type ScrapeRunRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.ScrapeRun, error)
	Update(ctx context.Context, run *entity.ScrapeRun) error
}

// NewScrapeRunRepository creates a new GORM-based scrape run repository.
func NewScrapeRunRepository(db *gorm.DB) ScrapeRunRepository {
	return &scrapeRunRepository{db: db}
}

type scrapeRunRepository struct {
	db *gorm.DB
}

// FindByID retrieves a run by its ID.
func (r *scrapeRunRepository) FindByID(ctx context.Context, id uint) (*entity.ScrapeRun, error) {
	var run entity.ScrapeRun
	err := r.db.WithContext(ctx).First(&run, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Update saves the run row.
func (r *scrapeRunRepository) Update(ctx context.Context, run *entity.ScrapeRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}
