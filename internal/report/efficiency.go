package report

import (
	"io"

	"github.com/blackwell-systems/sessiongrade/internal/analyzer"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
)

var dimensionLabels = map[string]string{
	scoring.MessageEfficiency:        "Message efficiency",
	scoring.TaskCompletion:           "Task completion",
	scoring.TokenEfficiency:          "Token efficiency",
	scoring.ConstitutionalCompliance: "Constitutional compliance",
}

// WriteEfficiency renders the efficiency analysis as a Markdown report.
func WriteEfficiency(w io.Writer, a analyzer.EfficiencyAnalysis, meta Meta) error {
	m := &mdWriter{w: w}
	tr := a.Trends

	m.header("Session Efficiency Report", meta)

	m.printf("## Overview\n\n")
	m.printf("- **Total sessions**: %d\n", a.TotalSessions)
	m.printf("- **Analyzed**: %d\n", tr.TotalAnalyzed)
	m.printf("- **Failed**: %d\n", tr.Failed)
	m.printf("- **Average score**: %s\n", score(tr.AverageScore))
	m.printf("- **Highest score**: %s\n", score(tr.HighestScore))
	m.printf("- **Lowest score**: %s\n\n", score(tr.LowestScore))

	if meta.Weights != nil {
		wt := meta.Weights
		m.printf("## Weights\n\n| Dimension | Weight |\n|------|------|\n")
		m.printf("| %s | %s |\n", dimensionLabels[scoring.MessageEfficiency], percent(wt.Message))
		m.printf("| %s | %s |\n", dimensionLabels[scoring.TaskCompletion], percent(wt.Task))
		m.printf("| %s | %s |\n", dimensionLabels[scoring.TokenEfficiency], percent(wt.Token))
		m.printf("| %s | %s |\n\n", dimensionLabels[scoring.ConstitutionalCompliance], percent(wt.Constitutional))
	}

	if len(tr.GradeDistribution) > 0 {
		m.printf("## Grade Distribution\n\n| Grade | Sessions |\n|------|------|\n")
		for _, g := range orderedKeys(tr.GradeDistribution, meta.GradeOrder) {
			m.printf("| %s | %d |\n", g, tr.GradeDistribution[g])
		}
		m.printf("\n")
	}

	if len(tr.PatternFrequency) > 0 {
		m.printf("## Pattern Frequency\n\n| Pattern | Sessions |\n|------|------|\n")
		for _, p := range orderedKeys(tr.PatternFrequency, nil) {
			m.printf("| %s | %d |\n", p, tr.PatternFrequency[p])
		}
		m.printf("\n")
	}

	m.printf("---\n\n## Sessions\n\n")
	n := 0
	for _, s := range a.Sessions {
		n++
		if s.Failed() {
			m.printf("### %d. %s (failed)\n\n", n, shortID(s.SessionID))
			m.printf("**Error**: %s\n\n", s.Error)
			continue
		}
		writeSessionEfficiency(m, n, s)
	}
	if n == 0 {
		m.printf("No sessions found.\n")
	}

	m.footer("score")
	return m.err
}

func writeSessionEfficiency(m *mdWriter, n int, s analyzer.SessionEfficiency) {
	eff := s.Efficiency
	st := s.Stats

	m.printf("### %d. %s (%s)\n\n", n, shortID(s.SessionID), eff.Grade)
	if s.FirstPrompt != "" {
		m.printf("> %s\n\n", escapeCell(s.FirstPrompt))
	}
	m.printf("**Created**: %s\n", day(s.Created))
	m.printf("**Overall score**: %s/100\n\n", score(eff.OverallScore))

	m.printf("#### Dimensions\n\n| Dimension | Score | Assessment |\n|------|------|------|\n")
	for _, name := range scoring.DimensionNames {
		d := eff.Dimensions[name]
		m.printf("| %s | %s | %s |\n", dimensionLabels[name], score(d.Score), d.Reason)
	}

	m.printf("\n#### Statistics\n\n")
	m.printf("- Messages: %d (user: %d, assistant: %d)\n", st.MessageCount, st.UserMessages, st.AssistantMessages)
	m.printf("- Tool calls: %d\n", st.ToolCalls)
	m.printf("- Input tokens: %s\n", comma(st.TotalInputTokens))
	m.printf("- Output tokens: %s\n", comma(st.TotalOutputTokens))
	m.printf("- Todo tracking: %t\n", st.HasTodos)
	if len(st.ToolUsePatterns) > 0 {
		m.printf("- Tools:")
		for i, name := range st.ToolNames() {
			sep := ","
			if i == 0 {
				sep = ""
			}
			m.printf("%s %s×%d", sep, name, st.ToolUsePatterns[name])
		}
		m.printf("\n")
	}
	m.printf("\n")

	if len(eff.InefficientPatterns) > 0 {
		m.printf("#### Inefficient Patterns\n\n")
		for _, p := range eff.InefficientPatterns {
			m.printf("- **%s** (%s): %s → %s\n", p.Type, p.Severity, p.Description, p.Suggestion)
		}
		m.printf("\n")
	}
}
