package analyzer

import (
	"log/slog"
	"math"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
)

// AnalyzeEfficiency parses, scores, and pattern-checks each entry in order.
// A session that cannot be read is recorded with its error and left out of
// the trends; the remaining sessions are still processed.
func AnalyzeEfficiency(entries []claude.IndexEntry, parser *claude.Parser, engine *scoring.Engine, detector *patterns.Detector) EfficiencyAnalysis {
	logger := parserLogger(parser)
	out := EfficiencyAnalysis{
		TotalSessions: len(entries),
		Sessions:      make([]SessionEfficiency, 0, len(entries)),
	}

	for _, e := range entries {
		se := SessionEfficiency{SessionInfo: NewSessionInfo(e)}

		stats, err := parser.AnalyzeFile(e.FullPath).Value()
		if err != nil {
			logger.Warn("skipping session", "session", e.SessionID, "path", e.FullPath, "err", err)
			se.Err = err
			se.Error = err.Error()
			out.Sessions = append(out.Sessions, se)
			continue
		}

		res := engine.Evaluate(&stats, detector)
		se.Stats = &stats
		se.Efficiency = &res
		out.Sessions = append(out.Sessions, se)
	}

	out.Trends = ComputeTrends(out.Sessions)
	return out
}

// ComputeTrends aggregates overall scores, grades, and pattern occurrences
// over the successful sessions.
func ComputeTrends(sessions []SessionEfficiency) Trends {
	t := Trends{
		GradeDistribution: make(map[string]int),
		PatternFrequency:  make(map[string]int),
	}

	var sum float64
	lowest := math.Inf(1)
	for _, s := range sessions {
		if s.Failed() || s.Efficiency == nil {
			t.Failed++
			continue
		}
		score := s.Efficiency.OverallScore
		t.TotalAnalyzed++
		sum += score
		t.HighestScore = math.Max(t.HighestScore, score)
		lowest = math.Min(lowest, score)
		t.GradeDistribution[s.Efficiency.Grade]++
		for typ, n := range patterns.Frequency(s.Efficiency.InefficientPatterns) {
			t.PatternFrequency[typ] += n
		}
	}

	if t.TotalAnalyzed > 0 {
		t.AverageScore = math.Round(sum/float64(t.TotalAnalyzed)*10) / 10
		t.LowestScore = lowest
	}
	return t
}

func parserLogger(p *claude.Parser) *slog.Logger {
	if p != nil && p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
