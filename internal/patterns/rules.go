package patterns

import (
	"fmt"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
)

// ExcessiveMessagesRule flags sessions with too many turns.
func ExcessiveMessagesRule(stats *claude.SessionStats, th Thresholds) []Pattern {
	if stats.MessageCount <= th.ExcessiveMessages {
		return nil
	}
	return []Pattern{{
		Type:     ExcessiveMessages,
		Severity: SeverityWarning,
		Description: fmt.Sprintf("Too many messages (%d > %d)",
			stats.MessageCount, th.ExcessiveMessages),
		Suggestion: "Consider merging tasks or using templates",
		Value:      float64(stats.MessageCount),
		Penalty:    -10,
	}}
}

// LowTaskRatioRule flags sessions where few user prompts carry a clear task.
func LowTaskRatioRule(stats *claude.SessionStats, th Thresholds) []Pattern {
	ratio, ok := stats.TaskRatio()
	if !ok || ratio >= th.LowTaskRatio {
		return nil
	}
	return []Pattern{{
		Type:        LowTaskRatio,
		Severity:    SeverityWarning,
		Description: fmt.Sprintf("Task message ratio too low (%.2f)", ratio),
		Suggestion:  "Use more explicit task descriptions",
		Value:       ratio,
		Penalty:     -15,
	}}
}

// HighTokenWasteRule flags sessions whose output dwarfs their input.
func HighTokenWasteRule(stats *claude.SessionStats, th Thresholds) []Pattern {
	ratio, ok := stats.TokenRatio()
	if !ok || ratio <= th.HighTokenWaste {
		return nil
	}
	return []Pattern{{
		Type:        HighTokenWaste,
		Severity:    SeverityWarning,
		Description: fmt.Sprintf("Output/input ratio too high (%.2f)", ratio),
		Suggestion:  "Tighten prompts to reduce redundant output",
		Value:       ratio,
		Penalty:     -10,
	}}
}

// RepeatedToolCallsRule emits one pattern per tool called more often than
// the threshold, in ascending tool-name order.
func RepeatedToolCallsRule(stats *claude.SessionStats, th Thresholds) []Pattern {
	var out []Pattern
	for _, name := range stats.ToolNames() {
		count := stats.ToolUsePatterns[name]
		if count <= th.RepeatedToolCalls {
			continue
		}
		out = append(out, Pattern{
			Type:        RepeatedToolCalls,
			Severity:    SeverityInfo,
			Description: fmt.Sprintf("Tool %s called %d times", name, count),
			Suggestion:  "Consider batching operations",
			Value:       float64(count),
			Penalty:     -5,
		})
	}
	return out
}

// MissingTodosRule flags longer sessions that never used task tracking.
func MissingTodosRule(stats *claude.SessionStats, th Thresholds) []Pattern {
	if stats.HasTodos || stats.MessageCount <= th.MissingTodosMinMessages {
		return nil
	}
	return []Pattern{{
		Type:        MissingTodos,
		Severity:    SeverityInfo,
		Description: "Task progress was not tracked with a todo list",
		Suggestion:  "For complex tasks, track progress with a todo list",
		Value:       float64(stats.MessageCount),
		Penalty:     -5,
	}}
}
