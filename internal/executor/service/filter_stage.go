package service

import (
	"context"
	"fmt"
	"time"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/pkg/logger"
)

// filterStage runs the cheap YES/NO classifier and records the verdict.
type filterStage struct {
	ai          repository.AIRepository
	discussions repository.DiscussionRepository
	timeout     time.Duration
	logger      *logger.Logger
}

func newFilterStage(ai repository.AIRepository, discussions repository.DiscussionRepository, timeout time.Duration, log *logger.Logger) *filterStage {
	return &filterStage{ai: ai, discussions: discussions, timeout: timeout, logger: log}
}

// Run classifies the discussion. On error passed_filter is left unset so the
// discussion shows up in the next pending query.
func (s *filterStage) Run(ctx context.Context, discussion *entity.Discussion) (bool, error) {
	classifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	verdict, err := s.ai.Classify(classifyCtx, discussion.Title, discussion.Content)
	cancel()
	if err != nil {
		return false, err
	}

	if err := s.discussions.MarkFiltered(ctx, discussion.ID, verdict.Passed); err != nil {
		return false, fmt.Errorf("failed to record verdict: %w", err)
	}

	s.logger.DebugContext(ctx, "Filter verdict",
		logger.Field("discussion_id", discussion.ID),
		logger.Field("passed", verdict.Passed),
		logger.StringField("reason", verdict.Reason))
	return verdict.Passed, nil
}
