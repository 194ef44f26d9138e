package repository

import (
	"fmt"
	"strings"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/pkg/utils"
)

// BuildFilterPrompt asks for a one-line YES/NO verdict.
func BuildFilterPrompt(title, content string, maxChars int) string {
	return fmt.Sprintf(`You screen online discussions for startup opportunities.

Does the discussion below describe a real, specific problem or pain point that people experience and would pay to have solved?
Ignore memes, self-promotion, news, and general chit-chat.

Answer with exactly one line in the form:
YES: <short reason>
or
NO: <short reason>

Title: %s

Content:
%s
`, title, utils.Truncate(content, maxChars))
}

// BuildExtractionPrompt asks for the structured problem plus 2 to 4 startup ideas.
func BuildExtractionPrompt(title, content string, maxChars int) string {
	return fmt.Sprintf(`You are a startup analyst. Extract the core problem from the discussion below and propose startup ideas that solve it.

Rules:
- "severity" is an integer from 1 (minor annoyance) to 10 (critical, costly pain).
- "audience_type" is one of: consumers, entrepreneurs, mixed, unknown.
- Propose between 2 and 4 startup ideas. Every idea needs a title and a description.
- Answer with JSON only, no prose and no code fences.

{
  "problem_statement": "<one or two sentences>",
  "severity": <integer 1-10>,
  "target_audience": "<who has this problem>",
  "audience_type": "consumers | entrepreneurs | mixed | unknown",
  "current_solutions": "<what people use today>",
  "why_they_fail": "<why current solutions fall short>",
  "startup_ideas": [
    {
      "title": "<short product name>",
      "description": "<what it does>",
      "approach": "<how it solves the problem>",
      "business_model": "<B2B SaaS, marketplace, ...>",
      "value_proposition": "<why customers switch>",
      "core_features": ["<feature>", "<feature>"],
      "monetization": "<pricing approach>",
      "tags": ["<tag>"]
    }
  ]
}

Title: %s

Discussion:
%s
`, title, utils.Truncate(content, maxChars))
}

// BuildMarketPrompt asks for sizing, positioning, go-to-market and a 0-100 market score.
func BuildMarketPrompt(problem *entity.Problem, competitors []entity.Competitor) string {
	var comp strings.Builder
	if len(competitors) == 0 {
		comp.WriteString("No competitor data available. Reason from general knowledge and say so in score_reasoning.\n")
	}
	for i, c := range competitors {
		comp.WriteString(fmt.Sprintf("%d. %s (%s): %s\n", i+1, c.Name, c.URL, c.Description))
	}

	severity := "unknown"
	if problem.Severity != nil {
		severity = fmt.Sprintf("%d/10", *problem.Severity)
	}

	return fmt.Sprintf(`You are a market analyst evaluating a startup opportunity.

Problem: %s
Target audience: %s (%s)
Severity: %s
Current solutions: %s
Why they fail: %s

Competitors found by web search:
%s
Score the market opportunity from 0 to 100 using these bands:
- 90-100 huge: massive, underserved market
- 70-89 large: strong demand, room for new entrants
- 50-69 medium: viable niche
- 30-49 small: limited demand or crowded
- 0-29 tiny: little evidence anyone would pay

"market_score" must be a number from 0 to 100 and "market_band" must be the band it falls in.
Answer with JSON only, no prose and no code fences.

{
  "tam": "<total addressable market>",
  "sam": "<serviceable addressable market>",
  "som": "<serviceable obtainable market>",
  "market_description": "<short description>",
  "positioning": "<how to position against competitors>",
  "pricing_model": "<pricing>",
  "target_segments": ["<segment>"],
  "gtm_strategy": {
    "primary_channel": "<channel>",
    "secondary_channels": ["<channel>"],
    "key_messaging": "<message>",
    "early_adopters": "<who buys first>"
  },
  "competitive_moat": "<defensibility>",
  "market_score": <0-100>,
  "market_band": "huge | large | medium | small | tiny",
  "score_reasoning": "<why this score>"
}
`, problem.ProblemStatement, problem.TargetAudience, problem.AudienceType, severity,
		problem.CurrentSolutions, problem.WhyTheyFail, comp.String())
}
