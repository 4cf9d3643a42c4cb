// Package config provides configuration loading and defaults for sessiongrade.
package config

import (
	"github.com/blackwell-systems/sessiongrade/internal/budget"
	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
)

// DefaultClaudeHome is the default location of Claude Code's data directory.
const DefaultClaudeHome = "~/.claude"

// DefaultConfigDir is the default location for sessiongrade configuration.
const DefaultConfigDir = "~/.config/sessiongrade"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultScoring mirrors the scoring engine's built-in tables.
var DefaultScoring = func() Scoring {
	sc := scoring.DefaultConfig()
	grades := make([]Grade, len(sc.Grades))
	for i, g := range sc.Grades {
		grades[i] = Grade{Grade: g.Grade, Min: g.MinScore}
	}
	return Scoring{
		Weights: Weights{
			Message:        sc.Weights.Message,
			Task:           sc.Weights.Task,
			Token:          sc.Weights.Token,
			Constitutional: sc.Weights.Constitutional,
		},
		Grades:                 grades,
		FallbackGrade:          sc.FallbackGrade,
		TokenRatioWindow:       []float64{sc.TokenRatioWindow.Low, sc.TokenRatioWindow.High},
		TokensPerMessageWindow: []float64{sc.TokensPerMessageWindow.Low, sc.TokensPerMessageWindow.High},
		TodoTool:               claude.DefaultTodoTool,
	}
}()

// DefaultPatterns holds the default pattern thresholds.
var DefaultPatterns = patterns.DefaultThresholds()

// DefaultBudget mirrors the budget engine's built-in pricing and ratios.
var DefaultBudget = func() Budget {
	bc := budget.DefaultConfig()
	return Budget{
		Pricing:            bc.Pricing,
		Multipliers:        bc.Multipliers,
		DefaultMultiplier:  bc.DefaultMultiplier,
		FallbackBaseTokens: bc.FallbackBaseTokens,
		InputShare:         bc.InputShare,
		WarningRatio:       bc.WarningRatio,
		CriticalRatio:      bc.CriticalRatio,
	}
}()

// DefaultKeywords holds the built-in keyword lists.
var DefaultKeywords = Keywords{
	Task:       claude.DefaultTaskWords,
	Approval:   claude.DefaultApprovalWords,
	Limitation: claude.DefaultLimitationWords,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
