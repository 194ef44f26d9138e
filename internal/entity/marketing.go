package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Competitor is one search hit stored with the market analysis.
type Competitor struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// GTMStrategy is the go-to-market block of a market analysis.
type GTMStrategy struct {
	PrimaryChannel    string   `json:"primary_channel"`
	SecondaryChannels []string `json:"secondary_channels"`
	KeyMessaging      string   `json:"key_messaging"`
	EarlyAdopters     string   `json:"early_adopters"`
}

// MarketingAnalysis is overwritten wholesale on every successful market stage.
type MarketingAnalysis struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ProblemID         uint           `gorm:"uniqueIndex;not null" json:"problem_id"`
	TAM               string         `gorm:"column:tam" json:"tam"`
	SAM               string         `gorm:"column:sam" json:"sam"`
	SOM               string         `gorm:"column:som" json:"som"`
	MarketDescription string         `json:"market_description"`
	Competitors       datatypes.JSON `json:"competitors"`
	Positioning       string         `json:"positioning"`
	PricingModel      string         `json:"pricing_model"`
	TargetSegments    StringList     `json:"target_segments"`
	GTMStrategy       datatypes.JSON `gorm:"column:gtm_strategy" json:"gtm_strategy"`
	GTMChannels       StringList     `gorm:"column:gtm_channels" json:"gtm_channels"`
	GTMMessaging      string         `gorm:"column:gtm_messaging" json:"gtm_messaging"`
	EarlyAdopters     string         `json:"early_adopters"`
	CompetitiveMoat   string         `json:"competitive_moat"`
	MarketScore       int            `gorm:"not null" json:"market_score"`
	ScoreReasoning    string         `json:"score_reasoning"`
	SearchDegraded    bool           `gorm:"not null;default:false" json:"search_degraded"`
	AnalyzedAt        time.Time      `json:"analyzed_at"`
}

func (MarketingAnalysis) TableName() string {
	return "marketing_analysis"
}

// OverallScore is a derived cache recomputed from market score and severity.
type OverallScore struct {
	ID                     uint         `gorm:"primaryKey" json:"id"`
	ProblemID              uint         `gorm:"uniqueIndex;not null" json:"problem_id"`
	MarketScore            *int         `json:"market_score"`
	OverallConfidenceScore *int         `json:"overall_confidence_score"`
	AnalysisTier           AnalysisTier `gorm:"type:varchar(10);not null;default:none" json:"analysis_tier"`
	GeneratedAt            time.Time    `gorm:"autoCreateTime" json:"generated_at"`
	UpdatedAt              time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OverallScore) TableName() string {
	return "overall_scores"
}
