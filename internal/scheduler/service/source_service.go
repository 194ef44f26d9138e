package service

import (
	"context"
	"encoding/json"

	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/pkg/logger"
)

// SourceService lists the configured discussion sources.
type SourceService interface {
	ListSources(ctx context.Context) ([]dto.SourceResponse, error)
}

// NewSourceService creates a new source service.
func NewSourceService(sourceRepo repository.SourceRepository, log *logger.Logger) SourceService {
	return &sourceService{sourceRepo: sourceRepo, logger: log}
}

type sourceService struct {
	sourceRepo repository.SourceRepository
	logger     *logger.Logger
}

func (s *sourceService) ListSources(ctx context.Context) ([]dto.SourceResponse, error) {
	sources, err := s.sourceRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list sources", logger.ErrorField(err))
		return nil, err
	}
	responses := make([]dto.SourceResponse, 0, len(sources))
	for _, src := range sources {
		cfg := json.RawMessage(src.Config)
		if len(cfg) == 0 {
			cfg = json.RawMessage(`{}`)
		}
		responses = append(responses, dto.SourceResponse{
			ID:          src.ID,
			Name:        src.Name,
			Type:        string(src.Type),
			Config:      cfg,
			IsActive:    src.IsActive,
			LastScraped: src.LastScraped,
			CreatedAt:   src.CreatedAt,
		})
	}
	return responses, nil
}
