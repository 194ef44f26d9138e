package strategy

import (
	"context"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/dto"
)

// SourceFetchStrategy fetches candidate discussions for one source type.
type SourceFetchStrategy interface {
	Fetch(ctx context.Context, source *entity.Source, limit int) ([]dto.RawDiscussion, error)
	GetType() entity.SourceType
}
