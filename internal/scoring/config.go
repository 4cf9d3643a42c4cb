package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Weights defines how much each dimension contributes to the overall score.
// They must sum to 1.0.
type Weights struct {
	Message        float64
	Task           float64
	Token          float64
	Constitutional float64
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Message + w.Task + w.Token + w.Constitutional
}

// GradeThreshold maps a minimum overall score to a letter grade.
type GradeThreshold struct {
	Grade    string
	MinScore float64
}

// Window is an inclusive [Low, High] range.
type Window struct {
	Low  float64
	High float64
}

// Contains reports whether v lies within the window.
func (w Window) Contains(v float64) bool {
	return v >= w.Low && v <= w.High
}

// Config is the immutable scoring configuration injected into an Engine.
type Config struct {
	Weights Weights

	// Grades is evaluated first-match, so it must be sorted by MinScore
	// descending. Scores below every threshold receive FallbackGrade.
	Grades        []GradeThreshold
	FallbackGrade string

	// TokenRatioWindow is the output/input ratio treated as reasonable.
	// Tunable; the default is not empirically calibrated.
	TokenRatioWindow Window

	// TokensPerMessageWindow is the (input+output)/message range that earns
	// the smaller bonus. Tunable; the default is not empirically calibrated.
	TokensPerMessageWindow Window
}

// weightTolerance absorbs float rounding in weight sums read from config files.
const weightTolerance = 1e-9

// DefaultConfig returns the standard weights, grade table, and windows.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Message:        0.25,
			Task:           0.30,
			Token:          0.25,
			Constitutional: 0.20,
		},
		Grades: []GradeThreshold{
			{"A+", 95}, {"A", 90}, {"A-", 85},
			{"B+", 80}, {"B", 75}, {"B-", 70},
			{"C+", 65}, {"C", 60}, {"C-", 55},
			{"D", 50},
		},
		FallbackGrade:          "F",
		TokenRatioWindow:       Window{Low: 0.3, High: 1.5},
		TokensPerMessageWindow: Window{Low: 500, High: 3000},
	}
}

// Validate checks the invariants the engine relies on.
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		MessageEfficiency:        w.Message,
		TaskCompletion:           w.Task,
		TokenEfficiency:          w.Token,
		ConstitutionalCompliance: w.Constitutional,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("weight %s = %v is outside [0, 1]", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %v, want 1.0", sum)
	}

	if len(c.Grades) == 0 {
		return errors.New("grade table is empty")
	}
	if c.FallbackGrade == "" {
		return errors.New("fallback grade is empty")
	}
	for i, g := range c.Grades {
		if g.Grade == "" {
			return fmt.Errorf("grade table entry %d has no letter", i)
		}
		if i > 0 && g.MinScore >= c.Grades[i-1].MinScore {
			return fmt.Errorf("grade table is not strictly descending at %s (%v >= %v)",
				g.Grade, g.MinScore, c.Grades[i-1].MinScore)
		}
	}

	if c.TokenRatioWindow.Low > c.TokenRatioWindow.High {
		return fmt.Errorf("token ratio window [%v, %v] is inverted",
			c.TokenRatioWindow.Low, c.TokenRatioWindow.High)
	}
	if c.TokensPerMessageWindow.Low > c.TokensPerMessageWindow.High {
		return fmt.Errorf("tokens-per-message window [%v, %v] is inverted",
			c.TokensPerMessageWindow.Low, c.TokensPerMessageWindow.High)
	}
	return nil
}
