package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-idea-radar/internal/executor/dto"
	"golang-idea-radar/pkg/utils"
)

const maxMessageLen = 4090

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// FormatRunDigest renders the run counters and the top problems as one or more Markdown
// messages, each within the Telegram length limit.
func FormatRunDigest(summary *dto.RunSummary, status string, problems []dto.DigestProblem) []string {
	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString(fmt.Sprintf("💡 *Idea Radar run #%d* (%s)\n\n", summary.RunID, escape(status)))
			return
		}
		current.WriteString(fmt.Sprintf("---*Run #%d part %d*---\n\n", summary.RunID, part))
	}

	startNewPart()
	current.WriteString(fmt.Sprintf("📥 New discussions: %d (duplicates %d)\n", summary.DiscussionsFound, summary.Duplicates))
	current.WriteString(fmt.Sprintf("🧪 Filter passed/rejected/failed: %d/%d/%d\n",
		summary.Stages.FilterPassed, summary.Stages.FilterRejected, summary.Stages.FilterFailed))
	current.WriteString(fmt.Sprintf("🧠 Problems created: %d\n", summary.ProblemsCreated))
	current.WriteString(fmt.Sprintf("📊 Market analyses: %d (degraded %d)\n", summary.Stages.MarketSuccess, summary.Stages.MarketDegraded))
	if summary.ItemsFailed > 0 || summary.SourcesFailed > 0 {
		current.WriteString(fmt.Sprintf("⚠️ Failed items: %d, failed sources: %d\n", summary.ItemsFailed, summary.SourcesFailed))
	}
	if summary.Cancelled {
		current.WriteString("⛔ Cancelled before all items were processed\n")
	}

	if len(problems) == 0 {
		current.WriteString("\nNo new problems above the score threshold.\n")
		return append(messages, current.String())
	}
	current.WriteString("\n🏆 *Top problems*\n\n")

	for _, p := range problems {
		var entry strings.Builder
		entry.WriteString(fmt.Sprintf("*%d/100* · severity %d/10 · #%d\n", p.OverallScore, p.Severity, p.ProblemID))
		entry.WriteString(escape(utils.Truncate(p.Statement, 300)) + "\n")
		if p.Audience != "" {
			entry.WriteString(fmt.Sprintf("👥 %s\n", escape(p.Audience)))
		}
		if p.URL != "" {
			entry.WriteString(p.URL + "\n")
		}
		entry.WriteString("\n")

		// a single entry never exceeds the limit
		if current.Len()+entry.Len() > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry.String())
	}

	return append(messages, current.String())
}

// FormatErrorAlertMessage renders a failed run alert.
func FormatErrorAlertMessage(at time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(at), escape(errType), escape(utils.Truncate(errMsg, 1500)), escape(data))
}
