package entity

import (
	"database/sql"
	"time"
)

// AudienceType is the closed set of audiences a problem may target.
type AudienceType string

const (
	AudienceConsumers     AudienceType = "consumers"
	AudienceEntrepreneurs AudienceType = "entrepreneurs"
	AudienceMixed         AudienceType = "mixed"
	AudienceUnknown       AudienceType = "unknown"
)

// Valid reports whether a is one of the known audience types.
func (a AudienceType) Valid() bool {
	switch a {
	case AudienceConsumers, AudienceEntrepreneurs, AudienceMixed, AudienceUnknown:
		return true
	}
	return false
}

// AnalysisTier records how far a problem has progressed. It never decreases.
type AnalysisTier string

const (
	TierNone  AnalysisTier = "none"
	TierBasic AnalysisTier = "basic"
	TierDeep  AnalysisTier = "deep"
)

// Rank orders tiers; unknown values rank below none.
func (t AnalysisTier) Rank() int {
	switch t {
	case TierNone:
		return 0
	case TierBasic:
		return 1
	case TierDeep:
		return 2
	}
	return -1
}

// Below returns the tiers strictly lower than t.
func (t AnalysisTier) Below() []AnalysisTier {
	var lower []AnalysisTier
	for _, tier := range []AnalysisTier{TierNone, TierBasic, TierDeep} {
		if tier.Rank() < t.Rank() {
			lower = append(lower, tier)
		}
	}
	return lower
}

// CardStatus is the human review state of a problem card.
type CardStatus string

const (
	CardNew      CardStatus = "new"
	CardViewed   CardStatus = "viewed"
	CardInReview CardStatus = "in_review"
	CardVerified CardStatus = "verified"
	CardArchived CardStatus = "archived"
	CardRejected CardStatus = "rejected"
)

// Valid reports whether s is a known card status.
func (s CardStatus) Valid() bool {
	switch s {
	case CardNew, CardViewed, CardInReview, CardVerified, CardArchived, CardRejected:
		return true
	}
	return false
}

// Problem is the structured extraction for one discussion.
type Problem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	DiscussionID     uint           `gorm:"uniqueIndex;not null" json:"discussion_id"`
	ProblemStatement string         `gorm:"not null" json:"problem_statement"`
	Severity         *int           `json:"severity"`
	TargetAudience   string         `json:"target_audience"`
	AudienceType     AudienceType   `gorm:"type:varchar(20);not null;default:unknown" json:"audience_type"`
	CurrentSolutions string         `json:"current_solutions"`
	WhyTheyFail      string         `json:"why_they_fail"`
	AnalysisTier     AnalysisTier   `gorm:"type:varchar(10);not null;default:none" json:"analysis_tier"`
	CardStatus       CardStatus     `gorm:"type:varchar(20);not null;default:new" json:"card_status"`
	IsStarred        bool           `gorm:"not null;default:false" json:"is_starred"`
	UserNotes        string         `json:"user_notes"`
	UserTags         StringList     `json:"user_tags"`
	ViewCount        int            `gorm:"not null;default:0" json:"view_count"`
	FirstViewedAt    sql.NullTime   `json:"first_viewed_at"`
	LastViewedAt     sql.NullTime   `json:"last_viewed_at"`
	ArchivedAt       sql.NullTime   `json:"archived_at"`
	VerifiedAt       sql.NullTime   `json:"verified_at"`
	ExtractedAt      time.Time      `gorm:"autoCreateTime" json:"extracted_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Discussion        *Discussion        `gorm:"foreignKey:DiscussionID" json:"discussion,omitempty"`
	StartupIdeas      []StartupIdea      `gorm:"foreignKey:ProblemID" json:"startup_ideas,omitempty"`
	MarketingAnalysis *MarketingAnalysis `gorm:"foreignKey:ProblemID" json:"marketing_analysis,omitempty"`
	OverallScore      *OverallScore      `gorm:"foreignKey:ProblemID" json:"overall_score,omitempty"`
}

func (Problem) TableName() string {
	return "problems"
}

// StartupIdea is one generated idea. Ideas are replaced as a batch.
type StartupIdea struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ProblemID        uint           `gorm:"not null;index" json:"problem_id"`
	IdeaTitle        string         `gorm:"not null" json:"idea_title"`
	Description      string         `gorm:"not null" json:"description"`
	Approach         string         `json:"approach"`
	BusinessModel    string         `json:"business_model"`
	ValueProposition string         `json:"value_proposition"`
	CoreFeatures     StringList     `json:"core_features"`
	Monetization     string         `json:"monetization"`
	Tags             StringList     `json:"tags"`
	GeneratedAt      time.Time      `gorm:"autoCreateTime" json:"generated_at"`
}

func (StartupIdea) TableName() string {
	return "startup_ideas"
}
