package repository

import (
	"context"
	"fmt"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/pkg/logger"
)

// AIRepository is the model-backed classifier and extractors used by the pipeline stages.
type AIRepository interface {
	Classify(ctx context.Context, title, content string) (*dto.FilterVerdict, error)
	ExtractProblem(ctx context.Context, title, content string) (*dto.ProblemExtraction, error)
	AnalyzeMarket(ctx context.Context, problem *entity.Problem, competitors []entity.Competitor) (*dto.MarketExtraction, error)
}

type modelTier int

const (
	// cheap model used for the YES/NO filter
	tierFilter modelTier = iota
	// expensive model used for extraction and market analysis
	tierAnalysis
)

// completer sends one prompt to a provider and returns the text answer.
type completer interface {
	complete(ctx context.Context, tier modelTier, prompt string, jsonOutput bool) (string, error)
	name() string
}

// promptAIRepository builds prompts and validates answers independently of the provider.
type promptAIRepository struct {
	completer       completer
	logger          *logger.Logger
	maxContentChars int
}

func newPromptAIRepository(c completer, log *logger.Logger, maxContentChars int) AIRepository {
	return &promptAIRepository{completer: c, logger: log, maxContentChars: maxContentChars}
}

// Classify asks the cheap model whether the discussion describes a real problem.
func (r *promptAIRepository) Classify(ctx context.Context, title, content string) (*dto.FilterVerdict, error) {
	prompt := BuildFilterPrompt(title, content, r.maxContentChars)
	raw, err := r.completer.complete(ctx, tierFilter, prompt, false)
	if err != nil {
		return nil, fmt.Errorf("%s classify: %w", r.completer.name(), err)
	}
	verdict, err := dto.ParseFilterVerdict(raw)
	if err != nil {
		r.logger.Warn("Malformed filter response", logger.StringField("provider", r.completer.name()), logger.StringField("raw", raw))
		return nil, err
	}
	return verdict, nil
}

// ExtractProblem runs deep analysis and returns the validated extraction.
func (r *promptAIRepository) ExtractProblem(ctx context.Context, title, content string) (*dto.ProblemExtraction, error) {
	prompt := BuildExtractionPrompt(title, content, r.maxContentChars)
	raw, err := r.completer.complete(ctx, tierAnalysis, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("%s extract: %w", r.completer.name(), err)
	}
	extraction, err := dto.ParseProblemExtraction(raw)
	if err != nil {
		r.logger.Error("Invalid extraction response", logger.ErrorField(err), logger.StringField("provider", r.completer.name()), logger.StringField("raw", raw))
		return nil, err
	}
	return extraction, nil
}

// AnalyzeMarket runs market analysis for a problem and returns the validated result.
func (r *promptAIRepository) AnalyzeMarket(ctx context.Context, problem *entity.Problem, competitors []entity.Competitor) (*dto.MarketExtraction, error) {
	prompt := BuildMarketPrompt(problem, competitors)
	raw, err := r.completer.complete(ctx, tierAnalysis, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("%s market: %w", r.completer.name(), err)
	}
	market, err := dto.ParseMarketExtraction(raw)
	if err != nil {
		r.logger.Error("Invalid market response", logger.ErrorField(err), logger.StringField("provider", r.completer.name()), logger.StringField("raw", raw))
		return nil, err
	}
	return market, nil
}
