package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/repository"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProblemService serves the card backlog and its curation workflow.
type ProblemService interface {
	ListProblems(ctx context.Context, filter dto.ProblemFilter) ([]dto.ProblemListItem, error)
	ListArchived(ctx context.Context, skip, limit int) ([]dto.ProblemListItem, error)
	GetProblemDetail(ctx context.Context, id uint) (*dto.ProblemDetail, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*dto.CurationResponse, error)
	SetStarred(ctx context.Context, id uint, starred bool) (*dto.CurationResponse, error)
	UpdateNotes(ctx context.Context, id uint, notes string) (*dto.CurationResponse, error)
	UpdateTags(ctx context.Context, id uint, tags []string) (*dto.CurationResponse, error)
	GetCompetitors(ctx context.Context, id uint) (*dto.CompetitorsResponse, error)
}

// NewProblemService creates a new problem service.
func NewProblemService(problemRepo repository.ProblemRepository, log *logger.Logger) ProblemService {
	return &problemService{problemRepo: problemRepo, logger: log}
}

type problemService struct {
	problemRepo repository.ProblemRepository
	logger      *logger.Logger
}

// ListProblems validates the filter and returns one page of cards.
func (s *problemService) ListProblems(ctx context.Context, filter dto.ProblemFilter) ([]dto.ProblemListItem, error) {
	if filter.Status != "" && !entity.CardStatus(filter.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.AudienceType != "" && !entity.AudienceType(filter.AudienceType).Valid() {
		return nil, fmt.Errorf("%w: unknown audience_type %q", ErrInvalidInput, filter.AudienceType)
	}
	if filter.AnalysisTier != "" && entity.AnalysisTier(filter.AnalysisTier).Rank() < 0 {
		return nil, fmt.Errorf("%w: unknown analysis_tier %q", ErrInvalidInput, filter.AnalysisTier)
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = dto.SortByScore
	case dto.SortByScore, dto.SortByDate, dto.SortBySeverity, dto.SortByEngagement:
	default:
		return nil, fmt.Errorf("%w: unknown sort_by %q", ErrInvalidInput, filter.SortBy)
	}
	if filter.MinScore != nil && (*filter.MinScore < 0 || *filter.MinScore > 100) {
		return nil, fmt.Errorf("%w: min_score must be between 0 and 100", ErrInvalidInput)
	}
	skip, limit, err := page(filter.Skip, filter.Limit)
	if err != nil {
		return nil, err
	}
	filter.Skip, filter.Limit = skip, limit
	filter.Tags = utils.NormalizeTags(filter.Tags)

	problems, err := s.problemRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list problems", logger.ErrorField(err))
		return nil, err
	}
	return mapProblemList(problems), nil
}

// ListArchived returns archived and rejected cards.
func (s *problemService) ListArchived(ctx context.Context, skip, limit int) ([]dto.ProblemListItem, error) {
	skip, limit, err := page(skip, limit)
	if err != nil {
		return nil, err
	}
	problems, err := s.problemRepo.ListArchived(ctx, skip, limit)
	if err != nil {
		s.logger.Error("Failed to list archived problems", logger.ErrorField(err))
		return nil, err
	}
	return mapProblemList(problems), nil
}

// GetProblemDetail records a view and returns the full card.
func (s *problemService) GetProblemDetail(ctx context.Context, id uint) (*dto.ProblemDetail, error) {
	if err := s.problemRepo.RecordView(ctx, id); err != nil {
		return nil, err
	}
	problem, err := s.problemRepo.FindDetail(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load problem detail", logger.ErrorField(err), logger.Field("problem_id", id))
		return nil, err
	}
	return mapProblemDetail(problem), nil
}

// UpdateStatus moves a card through the review workflow. A card never returns to new.
func (s *problemService) UpdateStatus(ctx context.Context, id uint, status string) (*dto.CurationResponse, error) {
	cs := entity.CardStatus(status)
	if !cs.Valid() || cs == entity.CardNew {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidCardStatus, status)
	}

	updates := map[string]interface{}{"card_status": cs}
	now := utils.TimeNowUTC()
	switch cs {
	case entity.CardArchived:
		updates["archived_at"] = now
	case entity.CardVerified:
		updates["verified_at"] = now
	}
	return s.curate(ctx, id, updates)
}

// SetStarred sets the starred flag.
func (s *problemService) SetStarred(ctx context.Context, id uint, starred bool) (*dto.CurationResponse, error) {
	return s.curate(ctx, id, map[string]interface{}{"is_starred": starred})
}

// UpdateNotes replaces the user notes.
func (s *problemService) UpdateNotes(ctx context.Context, id uint, notes string) (*dto.CurationResponse, error) {
	return s.curate(ctx, id, map[string]interface{}{"user_notes": notes})
}

// UpdateTags replaces the user tags, trimmed and deduplicated with order kept.
func (s *problemService) UpdateTags(ctx context.Context, id uint, tags []string) (*dto.CurationResponse, error) {
	return s.curate(ctx, id, map[string]interface{}{"user_tags": entity.StringList(utils.NormalizeTags(tags))})
}

func (s *problemService) curate(ctx context.Context, id uint, updates map[string]interface{}) (*dto.CurationResponse, error) {
	problem, err := s.problemRepo.UpdateCuration(ctx, id, updates)
	if err != nil {
		s.logger.Error("Failed to update problem curation", logger.ErrorField(err), logger.Field("problem_id", id))
		return nil, err
	}
	s.logger.Info("Problem curation updated", logger.Field("problem_id", id), logger.StringField("card_status", string(problem.CardStatus)))
	return &dto.CurationResponse{
		ID:         problem.ID,
		CardStatus: string(problem.CardStatus),
		IsStarred:  problem.IsStarred,
		UserNotes:  problem.UserNotes,
		UserTags:   nonNil(problem.UserTags),
		ArchivedAt: problem.ArchivedAt,
		VerifiedAt: problem.VerifiedAt,
	}, nil
}

// GetCompetitors returns the competitor list stored by the market stage.
func (s *problemService) GetCompetitors(ctx context.Context, id uint) (*dto.CompetitorsResponse, error) {
	analysis, err := s.problemRepo.FindMarketingAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	competitors, err := decodeCompetitors(analysis.Competitors)
	if err != nil {
		s.logger.Error("Stored competitors are malformed", logger.ErrorField(err), logger.Field("problem_id", id))
		return nil, err
	}
	raw, err := json.Marshal(competitors)
	if err != nil {
		return nil, err
	}
	return &dto.CompetitorsResponse{Competitors: raw, Count: len(competitors)}, nil
}

func decodeCompetitors(raw []byte) ([]entity.Competitor, error) {
	competitors := []entity.Competitor{}
	if len(raw) == 0 {
		return competitors, nil
	}
	if err := json.Unmarshal(raw, &competitors); err != nil {
		return nil, fmt.Errorf("failed to decode competitors: %w", err)
	}
	if competitors == nil {
		competitors = []entity.Competitor{}
	}
	return competitors, nil
}

func page(skip, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, fmt.Errorf("%w: skip must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit < 0 || limit > maxPageSize {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxPageSize)
	}
	return skip, limit, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func mapProblemList(problems []entity.Problem) []dto.ProblemListItem {
	items := make([]dto.ProblemListItem, 0, len(problems))
	for i := range problems {
		items = append(items, mapProblemListItem(&problems[i]))
	}
	return items
}

func mapProblemListItem(p *entity.Problem) dto.ProblemListItem {
	item := dto.ProblemListItem{
		ID:               p.ID,
		ProblemStatement: p.ProblemStatement,
		Severity:         p.Severity,
		TargetAudience:   p.TargetAudience,
		AudienceType:     string(p.AudienceType),
		AnalysisTier:     string(p.AnalysisTier),
		IdeasCount:       len(p.StartupIdeas),
		ExtractedAt:      p.ExtractedAt,
		CardStatus:       string(p.CardStatus),
		IsStarred:        p.IsStarred,
		ViewCount:        p.ViewCount,
		UserTags:         nonNil(p.UserTags),
		FirstViewedAt:    p.FirstViewedAt,
		LastViewedAt:     p.LastViewedAt,
		ArchivedAt:       p.ArchivedAt,
	}
	if p.OverallScore != nil {
		item.OverallScore = p.OverallScore.OverallConfidenceScore
		item.MarketScore = p.OverallScore.MarketScore
	}
	if d := p.Discussion; d != nil {
		item.Discussion = dto.DiscussionSummary{
			ID:            d.ID,
			URL:           d.URL,
			Title:         d.Title,
			Upvotes:       d.Upvotes,
			CommentsCount: d.CommentsCount,
		}
		if d.Source != nil {
			item.Discussion.SourceName = d.Source.Name
			item.Discussion.SourceType = string(d.Source.Type)
		}
	}
	return item
}

func mapProblemDetail(p *entity.Problem) *dto.ProblemDetail {
	detail := &dto.ProblemDetail{
		ProblemListItem:  mapProblemListItem(p),
		CurrentSolutions: p.CurrentSolutions,
		WhyTheyFail:      p.WhyTheyFail,
		UserNotes:        p.UserNotes,
		VerifiedAt:       p.VerifiedAt,
		StartupIdeas:     make([]dto.IdeaSummary, 0, len(p.StartupIdeas)),
	}
	for _, idea := range p.StartupIdeas {
		detail.StartupIdeas = append(detail.StartupIdeas, dto.IdeaSummary{
			ID:               idea.ID,
			IdeaTitle:        idea.IdeaTitle,
			Description:      idea.Description,
			Approach:         idea.Approach,
			BusinessModel:    idea.BusinessModel,
			ValueProposition: idea.ValueProposition,
			CoreFeatures:     nonNil(idea.CoreFeatures),
			Monetization:     idea.Monetization,
			Tags:             nonNil(idea.Tags),
		})
	}
	if m := p.MarketingAnalysis; m != nil {
		competitors, _ := decodeCompetitors(m.Competitors)
		detail.MarketingAnalysis = &dto.MarketingSummary{
			TAM:               m.TAM,
			SAM:               m.SAM,
			SOM:               m.SOM,
			MarketDescription: m.MarketDescription,
			Positioning:       m.Positioning,
			PricingModel:      m.PricingModel,
			TargetSegments:    nonNil(m.TargetSegments),
			GTMChannels:       nonNil(m.GTMChannels),
			GTMMessaging:      m.GTMMessaging,
			EarlyAdopters:     m.EarlyAdopters,
			CompetitiveMoat:   m.CompetitiveMoat,
			MarketScore:       m.MarketScore,
			ScoreReasoning:    m.ScoreReasoning,
			SearchDegraded:    m.SearchDegraded,
			CompetitorsCount:  len(competitors),
			AnalyzedAt:        m.AnalyzedAt,
		}
	}
	return detail
}
