package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-idea-radar/internal/entity"

	"gorm.io/gorm"
)

// RunScheduleRepository defines the interface for run schedule data operations.
type RunScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.RunSchedule) error
	FindByID(ctx context.Context, id uint) (*entity.RunSchedule, error)
	FindAll(ctx context.Context) ([]entity.RunSchedule, error)
	FindActive(ctx context.Context) ([]entity.RunSchedule, error)
	Update(ctx context.Context, schedule *entity.RunSchedule) error
	Delete(ctx context.Context, id uint) error
	FindDue(ctx context.Context, now time.Time) ([]entity.RunSchedule, error)
}

// NewRunScheduleRepository creates a new GORM-based run schedule repository.
func NewRunScheduleRepository(db *gorm.DB) RunScheduleRepository {
	return &runScheduleRepository{db: db}
}

type runScheduleRepository struct {
	db *gorm.DB
}

// Create creates a new schedule.
func (r *runScheduleRepository) Create(ctx context.Context, schedule *entity.RunSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// FindByID retrieves a schedule by its ID.
func (r *runScheduleRepository) FindByID(ctx context.Context, id uint) (*entity.RunSchedule, error) {
	var schedule entity.RunSchedule
	err := r.db.WithContext(ctx).First(&schedule, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("schedule %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindAll retrieves all schedules.
func (r *runScheduleRepository) FindAll(ctx context.Context) ([]entity.RunSchedule, error) {
	var schedules []entity.RunSchedule
	if err := r.db.WithContext(ctx).Order("id").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// FindActive retrieves every active schedule.
func (r *runScheduleRepository) FindActive(ctx context.Context) ([]entity.RunSchedule, error) {
	var schedules []entity.RunSchedule
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// Update saves a schedule.
func (r *runScheduleRepository) Update(ctx context.Context, schedule *entity.RunSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

// Delete removes a schedule by its ID.
func (r *runScheduleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.RunSchedule{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("schedule %d: %w", id, entity.ErrNotFound)
	}
	return nil
}

// FindDue finds the active schedules whose next execution has passed.
func (r *runScheduleRepository) FindDue(ctx context.Context, now time.Time) ([]entity.RunSchedule, error) {
	var schedules []entity.RunSchedule
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (next_execution IS NULL OR next_execution <= ?)", true, now).
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}
