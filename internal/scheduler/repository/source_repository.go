package repository

import (
	"context"

	"golang-idea-radar/internal/entity"

	"gorm.io/gorm"
)

// SourceRepository lists configured sources.
type SourceRepository interface {
	FindAll(ctx context.Context) ([]entity.Source, error)
}

// NewSourceRepository creates a new GORM-based source repository.
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

type sourceRepository struct {
	db *gorm.DB
}

// FindAll returns every source ordered by name.
func (r *sourceRepository) FindAll(ctx context.Context) ([]entity.Source, error) {
	var sources []entity.Source
	if err := r.db.WithContext(ctx).Order("name").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}
