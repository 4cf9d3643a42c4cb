// Package claude provides types and parsers for Claude Code's local session data.
package claude

import (
	"encoding/json"
	"sort"
)

// SessionIndex represents a project's sessions-index.json.
type SessionIndex struct {
	OriginalPath string       `json:"originalPath"`
	Entries      []IndexEntry `json:"entries"`
}

// IndexEntry identifies one recorded session in the index.
type IndexEntry struct {
	SessionID    string `json:"sessionId"`
	FullPath     string `json:"fullPath"`
	FirstPrompt  string `json:"firstPrompt"`
	MessageCount int    `json:"messageCount"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
	GitBranch    string `json:"gitBranch"`
	ProjectPath  string `json:"projectPath"`
	IsSidechain  bool   `json:"isSidechain"`
}

// TranscriptEntry is the top-level structure of a JSONL line.
type TranscriptEntry struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	SessionID string          `json:"sessionId"`
	Message   json.RawMessage `json:"message"`
}

// TranscriptMessage is the nested message of a user or assistant entry.
// Content is either a plain string or an array of content blocks.
type TranscriptMessage struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
	Usage   *Usage          `json:"usage"`
}

// Usage is the per-turn token accounting attached to assistant messages.
type Usage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// ContentBlock represents a single content block (tool_use, tool_result, text).
type ContentBlock struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
	Text  string          `json:"text"`
}

// ConstitutionalFlags counts safety and disclosure keyword hits across
// assistant turns.
type ConstitutionalFlags struct {
	HumanApprovalSought         int `json:"human_approval_sought" yaml:"human_approval_sought"`
	TransparentAboutLimitations int `json:"transparent_about_limitations" yaml:"transparent_about_limitations"`
}

// SessionStats is the per-session aggregate produced by Parser.ParseStats.
type SessionStats struct {
	MessageCount        int                 `json:"message_count" yaml:"message_count"`
	UserMessages        int                 `json:"user_messages" yaml:"user_messages"`
	AssistantMessages   int                 `json:"assistant_messages" yaml:"assistant_messages"`
	ToolCalls           int                 `json:"tool_calls" yaml:"tool_calls"`
	TaskMessages        int                 `json:"task_messages" yaml:"task_messages"`
	TotalInputTokens    int64               `json:"total_input_tokens" yaml:"total_input_tokens"`
	TotalOutputTokens   int64               `json:"total_output_tokens" yaml:"total_output_tokens"`
	HasTodos            bool                `json:"has_todos" yaml:"has_todos"`
	ToolUsePatterns     map[string]int      `json:"tool_use_patterns" yaml:"tool_use_patterns"`
	ConstitutionalFlags ConstitutionalFlags `json:"constitutional_flags" yaml:"constitutional_flags"`
}

// ToolNames returns the keys of ToolUsePatterns in ascending order. This is
// the iteration order of the tool histogram everywhere in sessiongrade.
func (s *SessionStats) ToolNames() []string {
	names := make([]string, 0, len(s.ToolUsePatterns))
	for name := range s.ToolUsePatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskRatio returns task_messages / user_messages, and false when there are
// no user messages.
func (s *SessionStats) TaskRatio() (float64, bool) {
	if s.UserMessages == 0 {
		return 0, false
	}
	return float64(s.TaskMessages) / float64(s.UserMessages), true
}

// TokenRatio returns output / input tokens, and false when there was no input.
func (s *SessionStats) TokenRatio() (float64, bool) {
	if s.TotalInputTokens == 0 {
		return 0, false
	}
	return float64(s.TotalOutputTokens) / float64(s.TotalInputTokens), true
}

// TokenUsage is the token-focused per-session aggregate produced by
// Parser.ParseTokens. MessageCount counts assistant turns.
type TokenUsage struct {
	TotalInput       int64 `json:"total_input" yaml:"total_input"`
	TotalOutput      int64 `json:"total_output" yaml:"total_output"`
	TotalCacheCreate int64 `json:"total_cache_create" yaml:"total_cache_create"`
	TotalCacheRead   int64 `json:"total_cache_read" yaml:"total_cache_read"`
	MessageCount     int   `json:"message_count" yaml:"message_count"`
}

// TotalTokens is input plus output. Cache tokens are tracked separately.
func (u TokenUsage) TotalTokens() int64 {
	return u.TotalInput + u.TotalOutput
}
