package service

import (
	"fmt"
	"strings"
	"testing"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/executor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitorQueries(t *testing.T) {
	p := &entity.Problem{ProblemStatement: strings.Repeat("x", 150), TargetAudience: "freelancers"}
	queries := competitorQueries(p)
	require.Len(t, queries, 2)
	assert.Equal(t, "best software tools for "+strings.Repeat("x", 100), queries[0])
	assert.Equal(t, "freelancers solutions for "+strings.Repeat("x", 100), queries[1])

	p = &entity.Problem{ProblemStatement: "late invoices", AudienceType: entity.AudienceConsumers}
	assert.Equal(t, "consumers solutions for late invoices", competitorQueries(p)[1])
}

func TestAppendCompetitors_DedupAndCap(t *testing.T) {
	var results []dto.SearchResult
	for i := 0; i < 15; i++ {
		results = append(results, dto.SearchResult{Title: fmt.Sprintf("T%d", i), URL: fmt.Sprintf("https://example.com/%d", i), Content: strings.Repeat("d", 400)})
	}
	results = append([]dto.SearchResult{{Title: "dup", URL: "https://www.example.com/0/"}}, results...)

	got := appendCompetitors(nil, map[string]struct{}{}, results)
	require.Len(t, got, maxCompetitors)
	assert.Equal(t, "dup", got[0].Name)
	assert.Equal(t, "T1", got[1].Name)
	assert.Len(t, got[1].Description, maxCompetitorDescription)
}

func TestBuildMarketingAnalysis(t *testing.T) {
	market := &dto.MarketExtraction{
		TAM:            "$1B",
		TargetSegments: []string{"agencies"},
		GTMStrategy:    entity.GTMStrategy{PrimaryChannel: "seo", SecondaryChannels: []string{"seo", "reddit"}, KeyMessaging: "get paid"},
	}
	ma, err := buildMarketingAnalysis(3, market, []entity.Competitor{}, 55, true)
	require.NoError(t, err)
	assert.Equal(t, uint(3), ma.ProblemID)
	assert.Equal(t, 55, ma.MarketScore)
	assert.True(t, ma.SearchDegraded)
	assert.Equal(t, entity.StringList{"seo", "reddit"}, ma.GTMChannels)
	assert.Equal(t, "get paid", ma.GTMMessaging)
	assert.JSONEq(t, `[]`, string(ma.Competitors))
	assert.JSONEq(t, `{"primary_channel":"seo","secondary_channels":["seo","reddit"],"key_messaging":"get paid","early_adopters":""}`, string(ma.GTMStrategy))
}
