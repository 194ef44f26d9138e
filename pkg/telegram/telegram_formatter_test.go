package telegram

import (
	"strings"
	"testing"
	"time"

	"golang-idea-radar/internal/executor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunDigest(t *testing.T) {
	summary := dto.NewRunSummary(7, "scrape")
	summary.DiscussionsFound = 10
	summary.ProblemsCreated = 2
	summary.Stages.FilterPassed = 3

	msgs := FormatRunDigest(summary, "completed", []dto.DigestProblem{
		{ProblemID: 1, Statement: "Freelancers chase *late* invoices", Audience: "freelancers", Severity: 9, OverallScore: 83, URL: "https://reddit.com/r/x/1"},
	})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "run #7")
	assert.Contains(t, msgs[0], "New discussions: 10")
	assert.Contains(t, msgs[0], "*83/100*")
	assert.Contains(t, msgs[0], `\*late\*`)
}

func TestFormatRunDigest_NoProblems(t *testing.T) {
	msgs := FormatRunDigest(dto.NewRunSummary(1, "scrape"), "completed", nil)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "No new problems")
}

func TestFormatRunDigest_SplitsLongDigest(t *testing.T) {
	var problems []dto.DigestProblem
	for i := 0; i < 40; i++ {
		problems = append(problems, dto.DigestProblem{ProblemID: uint(i + 1), Statement: strings.Repeat("x", 290), Severity: 5, OverallScore: 75})
	}

	msgs := FormatRunDigest(dto.NewRunSummary(3, "scrape"), "completed", problems)
	require.Greater(t, len(msgs), 1)
	for _, m := range msgs {
		assert.LessOrEqual(t, len(m), maxMessageLen)
	}
	assert.Contains(t, msgs[1], "part 2")
}

func TestFormatErrorAlertMessage(t *testing.T) {
	msg := FormatErrorAlertMessage(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC), "run_failed", "no active sources", "run 5")
	assert.Contains(t, msg, "02 Jan 2026 03:04 UTC")
	assert.Contains(t, msg, "no active sources")
	assert.Contains(t, msg, `run\_failed`)
}
