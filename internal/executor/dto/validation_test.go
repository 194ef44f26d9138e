package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-idea-radar/internal/entity"
)

const validExtraction = "```json\n" + `{
  "problem_statement": "Freelancers lose track of unpaid invoices",
  "severity": 7,
  "target_audience": "freelance designers",
  "audience_type": "entrepreneurs",
  "current_solutions": ["spreadsheets", "QuickBooks"],
  "why_they_fail": "too heavy for one-person shops",
  "startup_ideas": [
    {"title": "InvoiceNudge", "description": "Automatic polite reminders", "core_features": ["reminders", " "], "tags": ["fintech"]},
    {"title": "PayLater Radar", "description": "Cashflow forecast from invoices"}
  ]
}` + "\n```"

func TestParseProblemExtraction(t *testing.T) {
	got, err := ParseProblemExtraction(validExtraction)
	require.NoError(t, err)

	assert.Equal(t, "Freelancers lose track of unpaid invoices", got.ProblemStatement)
	assert.Equal(t, 7, got.Severity)
	assert.Equal(t, entity.AudienceEntrepreneurs, got.AudienceType)
	assert.Equal(t, "spreadsheets; QuickBooks", got.CurrentSolutions)
	require.Len(t, got.Ideas, 2)
	assert.Equal(t, []string{"reminders"}, got.Ideas[0].CoreFeatures)
	assert.Equal(t, "PayLater Radar", got.Ideas[1].Title)
}

func TestParseProblemExtractionRejects(t *testing.T) {
	ideas := `[{"title":"a","description":"b"},{"title":"c","description":"d"}]`
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"not json", "I cannot help with that", ""},
		{"missing statement", `{"severity":5,"audience_type":"mixed","startup_ideas":` + ideas + `}`, "problem_statement"},
		{"fractional severity", `{"problem_statement":"x","severity":7.5,"audience_type":"mixed","startup_ideas":` + ideas + `}`, "severity"},
		{"string severity", `{"problem_statement":"x","severity":"7","audience_type":"mixed","startup_ideas":` + ideas + `}`, "severity"},
		{"severity too high", `{"problem_statement":"x","severity":11,"audience_type":"mixed","startup_ideas":` + ideas + `}`, "severity"},
		{"severity zero", `{"problem_statement":"x","severity":0,"audience_type":"mixed","startup_ideas":` + ideas + `}`, "severity"},
		{"unknown audience", `{"problem_statement":"x","severity":5,"audience_type":"developers","startup_ideas":` + ideas + `}`, "audience_type"},
		{"one idea", `{"problem_statement":"x","severity":5,"audience_type":"mixed","startup_ideas":[{"title":"a","description":"b"}]}`, "startup_ideas"},
		{"five ideas", `{"problem_statement":"x","severity":5,"audience_type":"mixed","startup_ideas":[{"title":"a","description":"b"},{"title":"a","description":"b"},{"title":"a","description":"b"},{"title":"a","description":"b"},{"title":"a","description":"b"}]}`, "startup_ideas"},
		{"idea without title", `{"problem_statement":"x","severity":5,"audience_type":"mixed","startup_ideas":[{"title":"","description":"b"},{"title":"c","description":"d"}]}`, "startup_ideas[0].title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProblemExtraction(tt.raw)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.raw, verr.Raw)
		})
	}
}

func TestParseMarketExtraction(t *testing.T) {
	raw := `Here you go: {"tam":"$2B","sam":"$300M","som":"$10M","market_score":69.9,"market_band":"Medium",
		"target_segments":["agencies"],"gtm_strategy":{"primary_channel":"reddit","secondary_channels":["seo"]}}`

	got, err := ParseMarketExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, 69, got.MarketScore)
	assert.Equal(t, "medium", got.MarketBand)
	assert.Equal(t, "$2B", got.TAM)
	assert.Equal(t, "reddit", got.GTMStrategy.PrimaryChannel)
	assert.Equal(t, []string{"seo"}, got.GTMStrategy.SecondaryChannels)
}

func TestParseMarketExtractionRejects(t *testing.T) {
	for _, raw := range []string{
		`{"market_score":101}`,
		`{"market_score":-1}`,
		`{"market_score":"high"}`,
		`{"tam":"$1B"}`,
	} {
		_, err := ParseMarketExtraction(raw)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), raw)
		assert.Equal(t, "market_score", verr.Field, raw)
	}
}

func TestParseFilterVerdict(t *testing.T) {
	v, err := ParseFilterVerdict("YES: clear pain point around invoicing")
	require.NoError(t, err)
	assert.True(t, v.Passed)
	assert.Equal(t, "clear pain point around invoicing", v.Reason)

	v, err = ParseFilterVerdict("  no - just a meme")
	require.NoError(t, err)
	assert.False(t, v.Passed)
	assert.Equal(t, "just a meme", v.Reason)

	v, err = ParseFilterVerdict("**NO**")
	require.NoError(t, err)
	assert.False(t, v.Passed)

	for _, raw := range []string{"", "Maybe", "NOTE: unclear", "Yesterday I saw"} {
		_, err := ParseFilterVerdict(raw)
		assert.Error(t, err, raw)
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("sure! {\"a\":1} hope this helps"))
	assert.Equal(t, "", StripCodeFence("   "))
}
