package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang-idea-radar/internal/entity"
)

const (
	minIdeas = 2
	maxIdeas = 4
)

// ValidationError reports model output that does not fit the expected structure.
type ValidationError struct {
	Field  string
	Reason string
	Raw    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid model output: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FilterVerdict is the parsed cheap-model classification.
type FilterVerdict struct {
	Passed bool
	Reason string
}

// ParseFilterVerdict accepts responses of the form "YES: reason" or "NO: reason".
func ParseFilterVerdict(raw string) (*FilterVerdict, error) {
	text := strings.TrimLeft(strings.TrimSpace(raw), "*\"' ")

	var passed bool
	var rest string
	switch {
	case hasFoldPrefix(text, "YES"):
		passed, rest = true, text[3:]
	case hasFoldPrefix(text, "NO"):
		passed, rest = false, text[2:]
	default:
		return nil, &ValidationError{Field: "verdict", Reason: "response must start with YES or NO", Raw: raw}
	}
	rest = strings.TrimLeft(rest, "*")
	if rest != "" && !strings.ContainsAny(rest[:1], verdictSeparators) {
		// e.g. "NOTE ..." or "YESTERDAY ..."
		return nil, &ValidationError{Field: "verdict", Reason: "response must start with YES or NO", Raw: raw}
	}

	reason := strings.TrimSpace(strings.TrimLeft(rest, verdictSeparators))
	return &FilterVerdict{Passed: passed, Reason: reason}, nil
}

const verdictSeparators = ":.,;- \n\t"

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// IdeaExtraction is one validated startup idea.
type IdeaExtraction struct {
	Title            string
	Description      string
	Approach         string
	BusinessModel    string
	ValueProposition string
	CoreFeatures     []string
	Monetization     string
	Tags             []string
}

// ProblemExtraction is the validated deep analysis result.
type ProblemExtraction struct {
	ProblemStatement string
	Severity         int
	TargetAudience   string
	AudienceType     entity.AudienceType
	CurrentSolutions string
	WhyTheyFail      string
	Ideas            []IdeaExtraction
}

type rawIdea struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Approach         flexString `json:"approach"`
	BusinessModel    flexString `json:"business_model"`
	ValueProposition flexString `json:"value_proposition"`
	CoreFeatures     []string   `json:"core_features"`
	Monetization     flexString `json:"monetization"`
	Tags             []string   `json:"tags"`
}

type rawProblem struct {
	ProblemStatement string          `json:"problem_statement"`
	Severity         json.RawMessage `json:"severity"`
	TargetAudience   flexString      `json:"target_audience"`
	AudienceType     string          `json:"audience_type"`
	CurrentSolutions flexString      `json:"current_solutions"`
	WhyTheyFail      flexString      `json:"why_they_fail"`
	StartupIdeas     []rawIdea       `json:"startup_ideas"`
}

// ParseProblemExtraction decodes and validates deep analysis output.
// Nothing is clamped or defaulted: out-of-range values are rejected.
func ParseProblemExtraction(raw string) (*ProblemExtraction, error) {
	var rp rawProblem
	if err := decodeJSONObject(raw, &rp); err != nil {
		return nil, &ValidationError{Reason: err.Error(), Raw: raw}
	}

	statement := strings.TrimSpace(rp.ProblemStatement)
	if statement == "" {
		return nil, &ValidationError{Field: "problem_statement", Reason: "missing", Raw: raw}
	}

	severity, err := parseStrictInt(rp.Severity)
	if err != nil {
		return nil, &ValidationError{Field: "severity", Reason: err.Error(), Raw: raw}
	}
	if severity < 1 || severity > 10 {
		return nil, &ValidationError{Field: "severity", Reason: fmt.Sprintf("%d is outside 1..10", severity), Raw: raw}
	}

	audience := entity.AudienceType(strings.ToLower(strings.TrimSpace(rp.AudienceType)))
	if !audience.Valid() {
		return nil, &ValidationError{Field: "audience_type", Reason: fmt.Sprintf("unknown value %q", rp.AudienceType), Raw: raw}
	}

	if n := len(rp.StartupIdeas); n < minIdeas || n > maxIdeas {
		return nil, &ValidationError{Field: "startup_ideas", Reason: fmt.Sprintf("expected %d to %d ideas, got %d", minIdeas, maxIdeas, n), Raw: raw}
	}

	ideas := make([]IdeaExtraction, 0, len(rp.StartupIdeas))
	for i, idea := range rp.StartupIdeas {
		title := strings.TrimSpace(idea.Title)
		desc := strings.TrimSpace(idea.Description)
		if title == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("startup_ideas[%d].title", i), Reason: "missing", Raw: raw}
		}
		if desc == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("startup_ideas[%d].description", i), Reason: "missing", Raw: raw}
		}
		ideas = append(ideas, IdeaExtraction{
			Title:            title,
			Description:      desc,
			Approach:         string(idea.Approach),
			BusinessModel:    string(idea.BusinessModel),
			ValueProposition: string(idea.ValueProposition),
			CoreFeatures:     trimAll(idea.CoreFeatures),
			Monetization:     string(idea.Monetization),
			Tags:             trimAll(idea.Tags),
		})
	}

	return &ProblemExtraction{
		ProblemStatement: statement,
		Severity:         severity,
		TargetAudience:   strings.TrimSpace(string(rp.TargetAudience)),
		AudienceType:     audience,
		CurrentSolutions: string(rp.CurrentSolutions),
		WhyTheyFail:      string(rp.WhyTheyFail),
		Ideas:            ideas,
	}, nil
}

// MarketExtraction is the validated market analysis result.
type MarketExtraction struct {
	TAM               string
	SAM               string
	SOM               string
	MarketDescription string
	Positioning       string
	PricingModel      string
	TargetSegments    []string
	GTMStrategy       entity.GTMStrategy
	CompetitiveMoat   string
	MarketScore       int
	MarketBand        string
	ScoreReasoning    string
}

type rawGTM struct {
	PrimaryChannel    flexString `json:"primary_channel"`
	SecondaryChannels []string   `json:"secondary_channels"`
	KeyMessaging      flexString `json:"key_messaging"`
	EarlyAdopters     flexString `json:"early_adopters"`
}

type rawMarket struct {
	TAM               flexString      `json:"tam"`
	SAM               flexString      `json:"sam"`
	SOM               flexString      `json:"som"`
	MarketDescription flexString      `json:"market_description"`
	Positioning       flexString      `json:"positioning"`
	PricingModel      flexString      `json:"pricing_model"`
	TargetSegments    []string        `json:"target_segments"`
	GTMStrategy       rawGTM          `json:"gtm_strategy"`
	CompetitiveMoat   flexString      `json:"competitive_moat"`
	MarketScore       json.RawMessage `json:"market_score"`
	MarketBand        string          `json:"market_band"`
	ScoreReasoning    flexString      `json:"score_reasoning"`
}

// ParseMarketExtraction decodes and validates market analysis output.
// A fractional score is floored; a score outside 0..100 is rejected.
func ParseMarketExtraction(raw string) (*MarketExtraction, error) {
	var rm rawMarket
	if err := decodeJSONObject(raw, &rm); err != nil {
		return nil, &ValidationError{Reason: err.Error(), Raw: raw}
	}

	score, err := parseNumber(rm.MarketScore)
	if err != nil {
		return nil, &ValidationError{Field: "market_score", Reason: err.Error(), Raw: raw}
	}
	if score < 0 || score > 100 {
		return nil, &ValidationError{Field: "market_score", Reason: fmt.Sprintf("%v is outside 0..100", score), Raw: raw}
	}

	return &MarketExtraction{
		TAM:               string(rm.TAM),
		SAM:               string(rm.SAM),
		SOM:               string(rm.SOM),
		MarketDescription: string(rm.MarketDescription),
		Positioning:       string(rm.Positioning),
		PricingModel:      string(rm.PricingModel),
		TargetSegments:    trimAll(rm.TargetSegments),
		GTMStrategy: entity.GTMStrategy{
			PrimaryChannel:    string(rm.GTMStrategy.PrimaryChannel),
			SecondaryChannels: trimAll(rm.GTMStrategy.SecondaryChannels),
			KeyMessaging:      string(rm.GTMStrategy.KeyMessaging),
			EarlyAdopters:     string(rm.GTMStrategy.EarlyAdopters),
		},
		CompetitiveMoat: string(rm.CompetitiveMoat),
		MarketScore:     int(math.Floor(score)),
		MarketBand:      strings.ToLower(strings.TrimSpace(rm.MarketBand)),
		ScoreReasoning:  string(rm.ScoreReasoning),
	}, nil
}

// StripCodeFence removes a surrounding markdown code fence and any prose around the JSON object.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func decodeJSONObject(raw string, v interface{}) error {
	body := StripCodeFence(raw)
	if body == "" {
		return fmt.Errorf("empty response")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return nil
}

func parseStrictInt(raw json.RawMessage) (int, error) {
	var n json.Number
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing")
	}
	if err := json.Unmarshal(raw, &n); err != nil || raw[0] == '"' {
		return 0, fmt.Errorf("must be an integer, got %s", string(raw))
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %s", string(raw))
	}
	return int(v), nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	var n json.Number
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing")
	}
	if err := json.Unmarshal(raw, &n); err != nil || raw[0] == '"' {
		return 0, fmt.Errorf("must be numeric, got %s", string(raw))
	}
	v, err := n.Float64()
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be numeric, got %s", string(raw))
	}
	return v, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// flexString accepts either a JSON string or a list of strings, joined with "; ".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("expected string or list of strings, got %s", string(b))
	}
	*f = flexString(strings.Join(trimAll(list), "; "))
	return nil
}
