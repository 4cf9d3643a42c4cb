// Package scoring computes per-session efficiency scores and letter grades.
package scoring

import "github.com/blackwell-systems/sessiongrade/internal/patterns"

// Dimension names, used as keys in ScoreResult.Dimensions.
const (
	MessageEfficiency        = "message_efficiency"
	TaskCompletion           = "task_completion"
	TokenEfficiency          = "token_efficiency"
	ConstitutionalCompliance = "constitutional_compliance"
)

// DimensionNames lists the four dimensions in reporting order.
var DimensionNames = []string{
	MessageEfficiency,
	TaskCompletion,
	TokenEfficiency,
	ConstitutionalCompliance,
}

// Dimension is one scored axis.
type Dimension struct {
	// Score is in [0, 100], rounded to one decimal place.
	Score  float64 `json:"score" yaml:"score"`
	Reason string  `json:"reason" yaml:"reason"`
}

// ScoreResult is the efficiency verdict for one session.
type ScoreResult struct {
	OverallScore        float64              `json:"overall_score" yaml:"overall_score"`
	Grade               string               `json:"grade" yaml:"grade"`
	Dimensions          map[string]Dimension `json:"dimensions" yaml:"dimensions"`
	InefficientPatterns []patterns.Pattern   `json:"inefficient_patterns" yaml:"inefficient_patterns"`
}
