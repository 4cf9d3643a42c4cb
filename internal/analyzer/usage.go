package analyzer

import (
	"github.com/blackwell-systems/sessiongrade/internal/budget"
	"github.com/blackwell-systems/sessiongrade/internal/claude"
)

// AnalyzeUsage totals token usage for each entry in order, sizes budgets for
// every task type, and classifies each session against the budget for
// taskType. An empty taskType selects the general budget.
func AnalyzeUsage(entries []claude.IndexEntry, parser *claude.Parser, engine *budget.Engine, taskType string) UsageAnalysis {
	logger := parserLogger(parser)
	if taskType == "" {
		taskType = budget.TaskGeneral
	}

	sessions := make([]SessionUsage, 0, len(entries))
	tokens := make([]budget.SessionTokens, 0, len(entries))
	for _, e := range entries {
		res := claude.Map(parser.AnalyzeTokensFile(e.FullPath), engine.Summarize)
		tokens = append(tokens, budget.SessionTokens{SessionID: e.SessionID, Tokens: res})

		su := SessionUsage{SessionInfo: NewSessionInfo(e)}
		if agg, err := res.Value(); err != nil {
			logger.Warn("skipping session", "session", e.SessionID, "path", e.FullPath, "err", err)
			su.Err = err
			su.Error = err.Error()
		} else {
			su.Tokens = &agg
		}
		sessions = append(sessions, su)
	}

	summary := engine.Aggregate(tokens)
	selected := engine.Suggest(summary, taskType)

	counts := make(map[budget.Status]int)
	for i := range sessions {
		if sessions[i].Tokens == nil {
			continue
		}
		st := engine.Classify(sessions[i].Tokens.TotalTokens, selected)
		sessions[i].Status = st
		counts[st]++
	}

	return UsageAnalysis{
		TotalSessions: len(entries),
		Sessions:      sessions,
		Summary:       summary,
		Suggestions:   engine.SuggestAll(summary),
		TaskType:      taskType,
		Budget:        selected,
		StatusCounts:  counts,
	}
}
