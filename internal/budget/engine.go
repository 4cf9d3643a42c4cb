package budget

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
)

// Engine prices token usage and sizes budgets from project history.
type Engine struct {
	cfg Config
}

// New validates cfg and returns an engine holding a private copy of it.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid budget config: %w", err)
	}
	cfg.Multipliers = maps.Clone(cfg.Multipliers)
	if cfg.Multipliers == nil {
		cfg.Multipliers = map[string]float64{}
	}
	return &Engine{cfg: cfg}, nil
}

// Pricing returns the engine's price table.
func (e *Engine) Pricing() Pricing {
	return e.cfg.Pricing
}

// perThousand converts a token count to cost at the given per-1K rate.
func perThousand(tokens int64, per1K float64) float64 {
	return float64(tokens) / 1000.0 * per1K
}

// Cost prices token counts with the linear per-1K model.
func (e *Engine) Cost(input, output, cacheCreate int64) float64 {
	p := e.cfg.Pricing
	return perThousand(input, p.InputPer1K) +
		perThousand(output, p.OutputPer1K) +
		perThousand(cacheCreate, p.CacheCreatePer1K)
}

// Summarize converts parsed token usage into a priced aggregate.
func (e *Engine) Summarize(u claude.TokenUsage) TokenAggregate {
	return TokenAggregate{
		TotalInput:       u.TotalInput,
		TotalOutput:      u.TotalOutput,
		TotalCacheCreate: u.TotalCacheCreate,
		TotalCacheRead:   u.TotalCacheRead,
		TotalTokens:      u.TotalTokens(),
		MessageCount:     u.MessageCount,
		CostEstimate:     e.Cost(u.TotalInput, u.TotalOutput, u.TotalCacheCreate),
	}
}

// Aggregate totals the successful sessions. Failed sessions are counted but
// contribute nothing else.
func (e *Engine) Aggregate(sessions []SessionTokens) ProjectSummary {
	s := ProjectSummary{TotalSessions: len(sessions)}
	for _, st := range sessions {
		agg, err := st.Tokens.Value()
		if err != nil {
			s.FailedSessions++
			continue
		}
		s.AnalyzedSessions++
		s.TotalInput += agg.TotalInput
		s.TotalOutput += agg.TotalOutput
		s.TotalCacheCreate += agg.TotalCacheCreate
		s.TotalCacheRead += agg.TotalCacheRead
		s.TotalMessages += agg.MessageCount
		s.TotalCost += agg.CostEstimate
	}
	s.TotalTokens = s.TotalInput + s.TotalOutput

	if s.AnalyzedSessions > 0 {
		n := float64(s.AnalyzedSessions)
		s.AvgTokensPerSession = float64(s.TotalTokens) / n
		s.AvgMessagesPerSession = float64(s.TotalMessages) / n
	}
	return s
}

// Multiplier returns the multiplier for taskType, or the default for an
// unknown label.
func (e *Engine) Multiplier(taskType string) float64 {
	if m, ok := e.cfg.Multipliers[taskType]; ok {
		return m
	}
	return e.cfg.DefaultMultiplier
}

// Suggest sizes a budget for taskType from the project's per-session
// average. Input gets the floor of its share and output the remainder, so
// the two always sum to the total.
func (e *Engine) Suggest(summary ProjectSummary, taskType string) Suggestion {
	base := e.cfg.FallbackBaseTokens
	if summary.HasHistory() {
		base = summary.AvgTokensPerSession
	}
	mult := e.Multiplier(taskType)

	total := int64(math.Floor(base * mult))
	input := int64(math.Floor(float64(total) * e.cfg.InputShare))
	output := total - input

	return Suggestion{
		TaskType:          taskType,
		BaseTokens:        base,
		Multiplier:        mult,
		SuggestedInput:    input,
		SuggestedOutput:   output,
		SuggestedTotal:    total,
		EstimatedCost:     round4(e.Cost(input, output, 0)),
		WarningThreshold:  int64(math.Floor(float64(total) * e.cfg.WarningRatio)),
		CriticalThreshold: int64(math.Floor(float64(total) * e.cfg.CriticalRatio)),
	}
}

// SuggestAll returns one suggestion per built-in task type in display order,
// followed by any extra configured types in name order.
func (e *Engine) SuggestAll(summary ProjectSummary) []Suggestion {
	out := make([]Suggestion, 0, len(e.cfg.Multipliers))
	for _, t := range e.TaskTypes() {
		out = append(out, e.Suggest(summary, t))
	}
	return out
}

// TaskTypes returns the built-in task types followed by any extra configured
// types in name order.
func (e *Engine) TaskTypes() []string {
	types := slices.Clone(TaskTypes)
	var extra []string
	for t := range e.cfg.Multipliers {
		if !slices.Contains(TaskTypes, t) {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(types, extra...)
}

// Classify places a token count against a suggestion's thresholds.
func (e *Engine) Classify(used int64, s Suggestion) Status {
	switch {
	case s.SuggestedTotal <= 0 && used <= 0:
		return StatusOK
	case used > s.SuggestedTotal:
		return StatusExceeded
	case used >= s.CriticalThreshold:
		return StatusCritical
	case used >= s.WarningThreshold:
		return StatusWarning
	default:
		return StatusOK
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
