package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/sessiongrade/internal/budget"
	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
	"github.com/stretchr/testify/require"
)

// fourMessageSession scores 87.0 (A-) and trips only missing_todos.
var fourMessageSession = []string{
	`{"type":"user","message":{"role":"user","content":"Please implement the parser"}}`,
	`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu_1","name":"Read","input":{}}],"usage":{"input_tokens":600,"output_tokens":500,"cache_creation_input_tokens":100,"cache_read_input_tokens":2000}}}`,
	`{"type":"user","message":{"role":"user","content":"Now implement the tests"}}`,
	`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Done."}],"usage":{"input_tokens":400,"output_tokens":300}}}`,
}

// searchSession calls Search seven times in two messages.
var searchSession = []string{
	`{"type":"user","message":{"content":"create a search index"}}`,
	`{"type":"assistant","message":{"content":[` +
		strings.Repeat(`{"type":"tool_use","name":"Search","input":{}},`, 6) +
		`{"type":"tool_use","name":"Search","input":{}}],"usage":{"input_tokens":2000,"output_tokens":1000}}}`,
}

func writeSession(t *testing.T, dir, id string, lines []string) claude.IndexEntry {
	t.Helper()
	path := filepath.Join(dir, id+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return claude.IndexEntry{SessionID: id, FullPath: path, FirstPrompt: "first", MessageCount: len(lines)}
}

func missingSession(dir, id string) claude.IndexEntry {
	return claude.IndexEntry{SessionID: id, FullPath: filepath.Join(dir, id+".jsonl")}
}

func newFixtures(t *testing.T) (*claude.Parser, *scoring.Engine, *patterns.Detector, *budget.Engine) {
	t.Helper()
	se, err := scoring.New(scoring.DefaultConfig())
	require.NoError(t, err)
	be, err := budget.New(budget.DefaultConfig())
	require.NoError(t, err)
	return claude.NewParser(claude.DefaultKeywords(), "", nil),
		se,
		patterns.NewDetector(patterns.DefaultThresholds()),
		be
}
