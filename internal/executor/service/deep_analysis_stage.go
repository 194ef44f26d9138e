package service

import (
	"context"
	"fmt"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/pkg/logger"
)

// deepAnalysisStage extracts the structured problem and its startup ideas.
type deepAnalysisStage struct {
	ai       repository.AIRepository
	problems repository.ProblemRepository
	logger   *logger.Logger
}

func newDeepAnalysisStage(ai repository.AIRepository, problems repository.ProblemRepository, log *logger.Logger) *deepAnalysisStage {
	return &deepAnalysisStage{ai: ai, problems: problems, logger: log}
}

// Run extracts and persists the problem. Nothing is written when extraction or validation fails,
// so the discussion stays pending.
func (s *deepAnalysisStage) Run(ctx context.Context, discussion *entity.Discussion) (*entity.Problem, error) {
	extraction, err := s.ai.ExtractProblem(ctx, discussion.Title, discussion.Content)
	if err != nil {
		return nil, err
	}

	problem, err := s.problems.SaveExtraction(ctx, discussion.ID, extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to save extraction: %w", err)
	}

	s.logger.DebugContext(ctx, "Problem extracted",
		logger.Field("discussion_id", discussion.ID),
		logger.Field("problem_id", problem.ID),
		logger.IntField("severity", extraction.Severity),
		logger.IntField("ideas", len(problem.StartupIdeas)))
	return problem, nil
}
