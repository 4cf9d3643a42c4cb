package claude

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to write a JSONL file in a temp dir and return its path.
func writeJSONL(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func newTestParser() *Parser {
	return NewParser(DefaultKeywords(), "", nil)
}

// scenarioLines is a four-message session: two task-bearing user prompts, two
// assistant turns (one with a tool call), 1000 input and 800 output tokens.
var scenarioLines = []string{
	`{"type":"user","timestamp":"2026-01-15T10:00:00Z","message":{"role":"user","content":"Please implement the parser"}}`,
	`{"type":"assistant","timestamp":"2026-01-15T10:00:05Z","message":{"role":"assistant","content":[{"type":"text","text":"Reading the file first."},{"type":"tool_use","id":"tu_1","name":"Read","input":{"file_path":"main.go"}}],"usage":{"input_tokens":600,"output_tokens":500,"cache_creation_input_tokens":100,"cache_read_input_tokens":2000}}}`,
	`{"type":"user","timestamp":"2026-01-15T10:01:00Z","message":{"role":"user","content":"Now implement the tests"}}`,
	`{"type":"assistant","timestamp":"2026-01-15T10:01:05Z","message":{"role":"assistant","content":[{"type":"text","text":"Done."}],"usage":{"input_tokens":400,"output_tokens":300}}}`,
}

func TestParseStats_Scenario(t *testing.T) {
	stats, err := newTestParser().ParseStats(strings.NewReader(strings.Join(scenarioLines, "\n")))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.MessageCount)
	assert.Equal(t, 2, stats.UserMessages)
	assert.Equal(t, 2, stats.AssistantMessages)
	assert.Equal(t, 2, stats.TaskMessages)
	assert.Equal(t, 1, stats.ToolCalls)
	assert.Equal(t, int64(1000), stats.TotalInputTokens)
	assert.Equal(t, int64(800), stats.TotalOutputTokens)
	assert.False(t, stats.HasTodos)
	assert.Equal(t, map[string]int{"Read": 1}, stats.ToolUsePatterns)
	assert.Equal(t, ConstitutionalFlags{}, stats.ConstitutionalFlags)
}

func TestParseStats_MalformedLineDoesNotChangeStats(t *testing.T) {
	p := newTestParser()
	clean, err := p.ParseStats(strings.NewReader(strings.Join(scenarioLines, "\n")))
	require.NoError(t, err)

	for _, bad := range []string{`{not json`, `42`, `"just a string"`, `{"type":"assistant",`} {
		t.Run(bad, func(t *testing.T) {
			lines := append([]string{}, scenarioLines[:2]...)
			lines = append(lines, bad)
			lines = append(lines, scenarioLines[2:]...)

			dirty, err := p.ParseStats(strings.NewReader(strings.Join(lines, "\n")))
			require.NoError(t, err)
			assert.Equal(t, clean, dirty)
		})
	}
}

func TestParseStats_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONL(t, dir, "session-a.jsonl", scenarioLines...)
	p := newTestParser()

	first, err := p.AnalyzeFile(path).Value()
	require.NoError(t, err)
	second, err := p.AnalyzeFile(path).Value()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseStats_TodoToolIsMonotonic(t *testing.T) {
	lines := []string{
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"TodoWrite","input":{}}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{}}]}}`,
	}
	stats, err := newTestParser().ParseStats(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.True(t, stats.HasTodos)
	assert.Equal(t, 2, stats.ToolCalls)
}

func TestParseStats_CustomTodoTool(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"TaskCreate","input":{}}]}}`

	p := NewParser(DefaultKeywords(), "TaskCreate", nil)
	stats, err := p.ParseStats(strings.NewReader(line))
	require.NoError(t, err)
	assert.True(t, stats.HasTodos)

	stats, err = newTestParser().ParseStats(strings.NewReader(line))
	require.NoError(t, err)
	assert.False(t, stats.HasTodos)
}

func TestParseStats_UnnamedToolCountsAsUnknown(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[{"type":"tool_use","input":{}}]}}`
	stats, err := newTestParser().ParseStats(strings.NewReader(line))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"unknown": 1}, stats.ToolUsePatterns)
}

func TestParseStats_ConstitutionalFlagsOncePerTurn(t *testing.T) {
	lines := []string{
		// Two approval words in one turn count once.
		`{"type":"assistant","message":{"content":[{"type":"text","text":"For safety, please confirm before I delete."}]}}`,
		// Chinese keywords, escaped by the writer.
		`{"type":"assistant","message":{"content":[{"type":"text","text":"\u6211\u4e0d\u786e\u5b9a\u8fd9\u4e2a\u9650\u5236"}]}}`,
		// Keywords in user turns are ignored.
		`{"type":"user","message":{"content":"safety first, I'm not sure"}}`,
	}
	stats, err := newTestParser().ParseStats(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ConstitutionalFlags.HumanApprovalSought)
	assert.Equal(t, 1, stats.ConstitutionalFlags.TransparentAboutLimitations)
}

func TestParseStats_UserContentBlocks(t *testing.T) {
	lines := []string{
		`{"type":"user","message":{"content":[{"type":"text","text":"Create a config loader"}]}}`,
		`{"type":"user","message":{"content":[{"type":"tool_result","tool_use_id":"tu_1","content":"create ok"}]}}`,
		`{"type":"user","message":{"content":"修改这个函数"}}`,
		`{"type":"user"}`,
	}
	stats, err := newTestParser().ParseStats(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Equal(t, 4, stats.UserMessages)
	// tool_result text is not user-authored and does not count.
	assert.Equal(t, 2, stats.TaskMessages)
	assert.LessOrEqual(t, stats.TaskMessages, stats.UserMessages)
}

func TestParseStats_IgnoresOtherTypes(t *testing.T) {
	lines := []string{
		`{"type":"summary","summary":"something"}`,
		`{"type":"system","content":"hook ran"}`,
		`{"type":"progress","data":{}}`,
	}
	stats, err := newTestParser().ParseStats(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Zero(t, stats.MessageCount)
	assert.NotNil(t, stats.ToolUsePatterns)
}

func TestParseStats_EmptyInput(t *testing.T) {
	stats, err := newTestParser().ParseStats(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, stats.MessageCount)
	assert.Empty(t, stats.ToolUsePatterns)
}

func TestAnalyzeFile_MissingFileFails(t *testing.T) {
	res := newTestParser().AnalyzeFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.True(t, res.Failed())
	_, err := res.Value()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeFile_OversizedLineFails(t *testing.T) {
	dir := t.TempDir()
	huge := `{"type":"user","message":{"content":"` + strings.Repeat("a", maxLineSize+1) + `"}}`
	path := writeJSONL(t, dir, "huge.jsonl", huge)

	res := newTestParser().AnalyzeFile(path)
	assert.True(t, res.Failed())
}

func TestParseTokens(t *testing.T) {
	lines := append([]string{}, scenarioLines...)
	lines = append(lines,
		`{"type":"assistant","message":{"content":[]}}`,
		`garbage`,
	)
	usage, err := newTestParser().ParseTokens(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	assert.Equal(t, TokenUsage{
		TotalInput:       1000,
		TotalOutput:      800,
		TotalCacheCreate: 100,
		TotalCacheRead:   2000,
		MessageCount:     3,
	}, usage)
	assert.Equal(t, int64(1800), usage.TotalTokens())
}

func TestAnalyzeTokensFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONL(t, dir, "s.jsonl", scenarioLines...)

	usage, err := newTestParser().AnalyzeTokensFile(path).Value()
	require.NoError(t, err)
	assert.Equal(t, 2, usage.MessageCount)

	res := newTestParser().AnalyzeTokensFile(filepath.Join(dir, "missing.jsonl"))
	assert.True(t, res.Failed())
	assert.Error(t, res.Err())
}

func TestSessionStats_Ratios(t *testing.T) {
	s := SessionStats{}
	_, ok := s.TaskRatio()
	assert.False(t, ok)
	_, ok = s.TokenRatio()
	assert.False(t, ok)

	s = SessionStats{UserMessages: 4, TaskMessages: 1, TotalInputTokens: 100, TotalOutputTokens: 250}
	r, ok := s.TaskRatio()
	assert.True(t, ok)
	assert.InDelta(t, 0.25, r, 1e-9)
	r, ok = s.TokenRatio()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, r, 1e-9)
}

func TestSessionStats_ToolNamesSorted(t *testing.T) {
	s := SessionStats{ToolUsePatterns: map[string]int{"Write": 1, "Bash": 3, "Read": 2}}
	assert.Equal(t, []string{"Bash", "Read", "Write"}, s.ToolNames())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"rfc3339nano", "2026-01-15T10:00:00.123Z", false},
		{"rfc3339", "2026-01-15T10:00:00Z", false},
		{"no zone", "2026-01-15T10:00:00", false},
		{"empty", "", true},
		{"invalid", "yesterday", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.zero, ParseTimestamp(tc.input).IsZero())
		})
	}
}
