package report

import (
	"io"

	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/sessiongrade/internal/analyzer"
)

// WriteUsage renders the token usage analysis as a Markdown report.
func WriteUsage(w io.Writer, a analyzer.UsageAnalysis, meta Meta) error {
	m := &mdWriter{w: w}
	s := a.Summary

	m.header("Token Usage Report", meta)

	m.printf("## Overview\n\n")
	m.printf("- **Total sessions**: %d\n", a.TotalSessions)
	m.printf("- **Analyzed**: %d\n", s.AnalyzedSessions)
	m.printf("- **Failed**: %d\n", s.FailedSessions)
	m.printf("- **Total messages**: %d\n\n", s.TotalMessages)

	m.printf("## Totals\n\n| Metric | Value |\n|------|------|\n")
	m.printf("| Input tokens | %s |\n", comma(s.TotalInput))
	m.printf("| Output tokens | %s |\n", comma(s.TotalOutput))
	m.printf("| Cache creation | %s |\n", comma(s.TotalCacheCreate))
	m.printf("| Cache read | %s |\n", comma(s.TotalCacheRead))
	m.printf("| **Total tokens** | **%s** |\n", comma(s.TotalTokens))
	m.printf("| **Estimated cost** | **%s** |\n\n", cost(s.TotalCost))

	m.printf("## Averages\n\n")
	m.printf("- Tokens per session: %s\n", humanize.Commaf(float64(int64(s.AvgTokensPerSession+0.5))))
	m.printf("- Messages per session: %.1f\n\n", s.AvgMessagesPerSession)

	m.printf("---\n\n## Sessions\n\n")
	for i, su := range a.Sessions {
		m.printf("### %d. %s\n\n", i+1, shortID(su.SessionID))
		m.printf("- **Created**: %s\n", day(su.Created))
		if su.Failed() {
			m.printf("- **Error**: %s\n\n", su.Error)
			continue
		}
		t := su.Tokens
		m.printf("- **Messages**: %d\n", t.MessageCount)
		m.printf("- **Input tokens**: %s\n", comma(t.TotalInput))
		m.printf("- **Output tokens**: %s\n", comma(t.TotalOutput))
		m.printf("- **Total tokens**: %s\n", comma(t.TotalTokens))
		m.printf("- **Estimated cost**: %s\n", cost(t.CostEstimate))
		m.printf("- **Status** (%s budget): %s\n\n", a.TaskType, su.Status)
	}
	if len(a.Sessions) == 0 {
		m.printf("No sessions found.\n\n")
	}

	m.printf("## Budget Suggestions\n\n")
	m.printf("| Task type | Multiplier | Input | Output | Total | Warning | Critical | Est. cost |\n")
	m.printf("|------|------|------|------|------|------|------|------|\n")
	for _, sg := range a.Suggestions {
		m.printf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			sg.TaskType,
			humanize.Ftoa(sg.Multiplier),
			comma(sg.SuggestedInput),
			comma(sg.SuggestedOutput),
			comma(sg.SuggestedTotal),
			comma(sg.WarningThreshold),
			comma(sg.CriticalThreshold),
			cost(sg.EstimatedCost),
		)
	}
	if !s.HasHistory() {
		m.printf("\nNo session history; suggestions use the %s-token fallback base.\n",
			humanize.Commaf(a.Budget.BaseTokens))
	}

	m.footer("budget")
	return m.err
}
