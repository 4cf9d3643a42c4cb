// Package budget aggregates per-session token usage into project totals and
// sizes token budgets for new tasks from that history.
package budget

import "github.com/blackwell-systems/sessiongrade/internal/claude"

// Known task types, in suggestion-table order.
const (
	TaskSmall   = "small"
	TaskMedium  = "medium"
	TaskLarge   = "large"
	TaskComplex = "complex"
	TaskGeneral = "general"
)

// TaskTypes lists the built-in task types in display order.
var TaskTypes = []string{TaskSmall, TaskMedium, TaskLarge, TaskComplex, TaskGeneral}

// Pricing holds per-1K-token prices for the linear cost model.
type Pricing struct {
	InputPer1K       float64 `mapstructure:"input_per_1k" json:"input_per_1k" yaml:"input_per_1k"`
	OutputPer1K      float64 `mapstructure:"output_per_1k" json:"output_per_1k" yaml:"output_per_1k"`
	CacheCreatePer1K float64 `mapstructure:"cache_create_per_1k" json:"cache_create_per_1k" yaml:"cache_create_per_1k"`
	CacheReadPer1K   float64 `mapstructure:"cache_read_per_1k" json:"cache_read_per_1k" yaml:"cache_read_per_1k"`
}

// TokenAggregate is the token footprint of one session.
type TokenAggregate struct {
	TotalInput       int64   `json:"total_input" yaml:"total_input"`
	TotalOutput      int64   `json:"total_output" yaml:"total_output"`
	TotalCacheCreate int64   `json:"total_cache_create" yaml:"total_cache_create"`
	TotalCacheRead   int64   `json:"total_cache_read" yaml:"total_cache_read"`
	TotalTokens      int64   `json:"total_tokens" yaml:"total_tokens"`
	MessageCount     int     `json:"message_count" yaml:"message_count"`
	CostEstimate     float64 `json:"cost_estimate" yaml:"cost_estimate"`
}

// SessionTokens pairs a session identifier with its token outcome.
type SessionTokens struct {
	SessionID string
	Tokens    claude.Result[TokenAggregate]
}

// ProjectSummary totals token usage over every successfully analyzed session.
type ProjectSummary struct {
	TotalSessions    int     `json:"total_sessions" yaml:"total_sessions"`
	AnalyzedSessions int     `json:"analyzed_sessions" yaml:"analyzed_sessions"`
	FailedSessions   int     `json:"failed_sessions" yaml:"failed_sessions"`
	TotalInput       int64   `json:"total_input" yaml:"total_input"`
	TotalOutput      int64   `json:"total_output" yaml:"total_output"`
	TotalCacheCreate int64   `json:"total_cache_create" yaml:"total_cache_create"`
	TotalCacheRead   int64   `json:"total_cache_read" yaml:"total_cache_read"`
	TotalTokens      int64   `json:"total_tokens" yaml:"total_tokens"`
	TotalMessages    int     `json:"total_messages" yaml:"total_messages"`
	TotalCost        float64 `json:"total_cost" yaml:"total_cost"`

	// Averages are zero when no session was analyzed.
	AvgTokensPerSession   float64 `json:"avg_tokens_per_session" yaml:"avg_tokens_per_session"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session" yaml:"avg_messages_per_session"`
}

// HasHistory reports whether at least one session contributed to the totals.
func (s ProjectSummary) HasHistory() bool {
	return s.AnalyzedSessions > 0
}

// Suggestion is a token budget sized for one task type.
type Suggestion struct {
	TaskType          string  `json:"task_type" yaml:"task_type"`
	BaseTokens        float64 `json:"base_tokens" yaml:"base_tokens"`
	Multiplier        float64 `json:"multiplier" yaml:"multiplier"`
	SuggestedInput    int64   `json:"suggested_input" yaml:"suggested_input"`
	SuggestedOutput   int64   `json:"suggested_output" yaml:"suggested_output"`
	SuggestedTotal    int64   `json:"suggested_total" yaml:"suggested_total"`
	EstimatedCost     float64 `json:"estimated_cost" yaml:"estimated_cost"`
	WarningThreshold  int64   `json:"warning_threshold" yaml:"warning_threshold"`
	CriticalThreshold int64   `json:"critical_threshold" yaml:"critical_threshold"`
}

// Status is the position of a usage figure relative to a Suggestion.
type Status string

// Usage statuses, from least to most severe.
const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusExceeded Status = "exceeded"
)
