// Package patterns detects inefficient session habits from parsed transcript
// statistics.
package patterns

import "github.com/blackwell-systems/sessiongrade/internal/claude"

// Severity levels for detected patterns.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Pattern type identifiers.
const (
	ExcessiveMessages = "excessive_messages"
	LowTaskRatio      = "low_task_ratio"
	HighTokenWaste    = "high_token_waste"
	RepeatedToolCalls = "repeated_tool_calls"
	MissingTodos      = "missing_todos"
)

// Pattern is one detected inefficiency.
type Pattern struct {
	Type        string  `json:"type" yaml:"type"`
	Severity    string  `json:"severity" yaml:"severity"`
	Description string  `json:"description" yaml:"description"`
	Suggestion  string  `json:"suggestion" yaml:"suggestion"`
	Value       float64 `json:"value" yaml:"value"`

	// Penalty is informational. It is not subtracted from any score.
	Penalty int `json:"penalty" yaml:"penalty"`
}

// Thresholds configures when each rule fires.
type Thresholds struct {
	// ExcessiveMessages fires when message_count exceeds this value.
	ExcessiveMessages int `mapstructure:"excessive_messages"`

	// LowTaskRatio fires when task/user falls below this value.
	LowTaskRatio float64 `mapstructure:"low_task_ratio"`

	// HighTokenWaste fires when output/input exceeds this value.
	HighTokenWaste float64 `mapstructure:"high_token_waste"`

	// RepeatedToolCalls fires once per tool invoked more than this many times.
	RepeatedToolCalls int `mapstructure:"repeated_tool_calls"`

	// MissingTodosMinMessages is the message count above which a session
	// without task tracking is flagged.
	MissingTodosMinMessages int `mapstructure:"missing_todos_min_messages"`
}

// DefaultThresholds returns the standard rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExcessiveMessages:       20,
		LowTaskRatio:            0.3,
		HighTokenWaste:          2.0,
		RepeatedToolCalls:       5,
		MissingTodosMinMessages: 3,
	}
}

// Rule examines session statistics and produces zero or more patterns.
type Rule func(stats *claude.SessionStats, th Thresholds) []Pattern
