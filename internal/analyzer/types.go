// Package analyzer runs the efficiency and token-usage pipelines over the
// sessions listed in a project's session index.
package analyzer

import (
	"unicode/utf8"

	"github.com/blackwell-systems/sessiongrade/internal/budget"
	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
)

// maxPromptRunes bounds the first prompt carried into results.
const maxPromptRunes = 100

// SessionInfo is the index metadata carried alongside each session result.
type SessionInfo struct {
	SessionID     string `json:"session_id" yaml:"session_id"`
	FirstPrompt   string `json:"first_prompt,omitempty" yaml:"first_prompt,omitempty"`
	Created       string `json:"created,omitempty" yaml:"created,omitempty"`
	GitBranch     string `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	IndexMessages int    `json:"index_message_count" yaml:"index_message_count"`
	Path          string `json:"path" yaml:"path"`
}

// NewSessionInfo extracts display metadata from an index entry.
func NewSessionInfo(e claude.IndexEntry) SessionInfo {
	return SessionInfo{
		SessionID:     e.SessionID,
		FirstPrompt:   truncateRunes(e.FirstPrompt, maxPromptRunes),
		Created:       e.Created,
		GitBranch:     e.GitBranch,
		IndexMessages: e.MessageCount,
		Path:          e.FullPath,
	}
}

// SessionEfficiency is one session's outcome in the efficiency pipeline.
// Exactly one of Efficiency or Err is set.
type SessionEfficiency struct {
	SessionInfo `yaml:",inline"`

	Stats      *claude.SessionStats `json:"stats,omitempty" yaml:"stats,omitempty"`
	Efficiency *scoring.ScoreResult `json:"efficiency,omitempty" yaml:"efficiency,omitempty"`

	// Error mirrors Err for structured output.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Err   error  `json:"-" yaml:"-"`
}

// Failed reports whether the session could not be analyzed.
func (s SessionEfficiency) Failed() bool {
	return s.Err != nil
}

// Trends summarizes scores across every successfully analyzed session.
type Trends struct {
	AverageScore  float64 `json:"average_score" yaml:"average_score"`
	HighestScore  float64 `json:"highest_score" yaml:"highest_score"`
	LowestScore   float64 `json:"lowest_score" yaml:"lowest_score"`
	TotalAnalyzed int     `json:"total_analyzed" yaml:"total_analyzed"`
	Failed        int     `json:"failed" yaml:"failed"`

	// GradeDistribution maps grade letter to the number of sessions earning it.
	GradeDistribution map[string]int `json:"grade_distribution" yaml:"grade_distribution"`

	// PatternFrequency maps pattern type to the number of sessions exhibiting it.
	PatternFrequency map[string]int `json:"pattern_frequency" yaml:"pattern_frequency"`
}

// EfficiencyAnalysis is the result of the efficiency pipeline.
type EfficiencyAnalysis struct {
	TotalSessions int                 `json:"total_sessions" yaml:"total_sessions"`
	Sessions      []SessionEfficiency `json:"sessions" yaml:"sessions"`
	Trends        Trends              `json:"trends" yaml:"trends"`
}

// SessionUsage is one session's outcome in the usage pipeline.
type SessionUsage struct {
	SessionInfo `yaml:",inline"`

	Tokens *budget.TokenAggregate `json:"tokens,omitempty" yaml:"tokens,omitempty"`

	// Status places the session's total tokens against the selected budget.
	Status budget.Status `json:"status,omitempty" yaml:"status,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Err   error  `json:"-" yaml:"-"`
}

// Failed reports whether the session could not be analyzed.
func (s SessionUsage) Failed() bool {
	return s.Err != nil
}

// UsageAnalysis is the result of the usage pipeline.
type UsageAnalysis struct {
	TotalSessions int                   `json:"total_sessions" yaml:"total_sessions"`
	Sessions      []SessionUsage        `json:"sessions" yaml:"sessions"`
	Summary       budget.ProjectSummary `json:"summary" yaml:"summary"`
	Suggestions   []budget.Suggestion   `json:"suggestions" yaml:"suggestions"`
	TaskType      string                `json:"task_type" yaml:"task_type"`
	Budget        budget.Suggestion     `json:"budget" yaml:"budget"`
	StatusCounts  map[budget.Status]int `json:"status_counts" yaml:"status_counts"`
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
