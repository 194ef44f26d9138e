package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/internal/executor/repository"
	"golang-idea-radar/internal/scoring"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"
)

const (
	maxCompetitors           = 10
	maxCompetitorDescription = 300
	competitorQueryChars     = 100
)

// marketOutcome is the result of a successful market stage.
type marketOutcome struct {
	Score    *entity.OverallScore
	Degraded bool
	Warnings []string
}

// marketAnalysisStage searches competitors and runs the market extractor.
type marketAnalysisStage struct {
	ai       repository.AIRepository
	search   repository.SearchRepository
	problems repository.ProblemRepository
	logger   *logger.Logger
}

func newMarketAnalysisStage(ai repository.AIRepository, search repository.SearchRepository, problems repository.ProblemRepository, log *logger.Logger) *marketAnalysisStage {
	return &marketAnalysisStage{ai: ai, search: search, problems: problems, logger: log}
}

// Run analyses the market for a problem. Search problems degrade the result,
// an extractor failure aborts the stage without writing anything.
func (s *marketAnalysisStage) Run(ctx context.Context, problem *entity.Problem) (*marketOutcome, error) {
	outcome := &marketOutcome{}

	competitors, warnings := s.searchCompetitors(ctx, problem)
	if len(competitors) == 0 {
		outcome.Degraded = true
		if len(warnings) == 0 {
			warnings = append(warnings, fmt.Sprintf("competitor search returned no results for problem %d", problem.ID))
		}
	}
	outcome.Warnings = warnings

	market, err := s.ai.AnalyzeMarket(ctx, problem, competitors)
	if err != nil {
		return nil, err
	}

	score := market.MarketScore
	if band, ok := scoring.ParseBand(market.MarketBand); ok {
		reconciled := scoring.ReconcileMarketScore(score, band)
		if reconciled != score {
			s.logger.DebugContext(ctx, "Market score lowered to declared band",
				logger.Field("problem_id", problem.ID),
				logger.IntField("score", score),
				logger.StringField("band", string(band)),
				logger.IntField("reconciled", reconciled))
			score = reconciled
		}
	}

	analysis, err := buildMarketingAnalysis(problem.ID, market, competitors, score, outcome.Degraded)
	if err != nil {
		return nil, err
	}

	overall, err := s.problems.SaveMarketAnalysis(ctx, analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to save market analysis: %w", err)
	}
	outcome.Score = overall
	return outcome, nil
}

// competitorQueries derives the fixed search queries for a problem.
func competitorQueries(problem *entity.Problem) []string {
	statement := utils.Truncate(utils.SafeText(problem.ProblemStatement), competitorQueryChars)
	audience := utils.SafeText(problem.TargetAudience)
	if audience == "" {
		audience = string(problem.AudienceType)
	}
	return []string{
		"best software tools for " + statement,
		audience + " solutions for " + statement,
	}
}

func (s *marketAnalysisStage) searchCompetitors(ctx context.Context, problem *entity.Problem) ([]entity.Competitor, []string) {
	var warnings []string
	seen := make(map[string]struct{})
	competitors := make([]entity.Competitor, 0, maxCompetitors)

	for _, query := range competitorQueries(problem) {
		results, err := s.search.Search(ctx, query)
		if err != nil {
			if errors.Is(err, repository.ErrSearchUnavailable) {
				warnings = append(warnings, fmt.Sprintf("competitor search unavailable for problem %d: %v", problem.ID, err))
				s.logger.Warn("Competitor search unavailable", logger.Field("problem_id", problem.ID), logger.ErrorField(err))
				break
			}
			warnings = append(warnings, fmt.Sprintf("competitor search failed for problem %d: %v", problem.ID, err))
			s.logger.Warn("Competitor search failed", logger.Field("problem_id", problem.ID), logger.StringField("query", query), logger.ErrorField(err))
			continue
		}
		competitors = appendCompetitors(competitors, seen, results)
		if len(competitors) >= maxCompetitors {
			break
		}
	}
	return competitors, warnings
}

func appendCompetitors(dst []entity.Competitor, seen map[string]struct{}, results []dto.SearchResult) []entity.Competitor {
	for _, r := range results {
		if len(dst) >= maxCompetitors {
			break
		}
		key := r.URL
		if canonical, err := utils.CanonicalURL(r.URL); err == nil {
			key = canonical
		}
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, entity.Competitor{
			Name:        utils.SafeText(r.Title),
			URL:         r.URL,
			Description: utils.Truncate(utils.SafeText(r.Content), maxCompetitorDescription),
		})
	}
	return dst
}

func buildMarketingAnalysis(problemID uint, market *dto.MarketExtraction, competitors []entity.Competitor, score int, degraded bool) (*entity.MarketingAnalysis, error) {
	competitorJSON, err := json.Marshal(competitors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal competitors: %w", err)
	}
	gtmJSON, err := json.Marshal(market.GTMStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gtm strategy: %w", err)
	}

	channels := make([]string, 0, 1+len(market.GTMStrategy.SecondaryChannels))
	if primary := strings.TrimSpace(market.GTMStrategy.PrimaryChannel); primary != "" {
		channels = append(channels, primary)
	}
	channels = append(channels, market.GTMStrategy.SecondaryChannels...)

	return &entity.MarketingAnalysis{
		ProblemID:         problemID,
		TAM:               market.TAM,
		SAM:               market.SAM,
		SOM:               market.SOM,
		MarketDescription: market.MarketDescription,
		Competitors:       competitorJSON,
		Positioning:       market.Positioning,
		PricingModel:      market.PricingModel,
		TargetSegments:    entity.StringList(market.TargetSegments),
		GTMStrategy:       gtmJSON,
		GTMChannels:       entity.StringList(utils.NormalizeTags(channels)),
		GTMMessaging:      market.GTMStrategy.KeyMessaging,
		EarlyAdopters:     market.GTMStrategy.EarlyAdopters,
		CompetitiveMoat:   market.CompetitiveMoat,
		MarketScore:       score,
		ScoreReasoning:    market.ScoreReasoning,
		SearchDegraded:    degraded,
		AnalyzedAt:        utils.TimeNowUTC(),
	}, nil
}
