package claude

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultTodoTool is the tool name Claude Code uses for task tracking.
const DefaultTodoTool = "TodoWrite"

// maxLineSize bounds a single JSONL line (10MB).
const maxLineSize = 10 * 1024 * 1024

// Parser turns session transcripts into per-session aggregates.
type Parser struct {
	Keywords Keywords
	// TodoTool is the tool name whose use sets SessionStats.HasTodos.
	TodoTool string
	Logger   *slog.Logger
}

// NewParser returns a Parser with the given heuristics. An empty todoTool
// selects DefaultTodoTool; a nil logger discards output.
func NewParser(kw Keywords, todoTool string, logger *slog.Logger) *Parser {
	if todoTool == "" {
		todoTool = DefaultTodoTool
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{Keywords: kw, TodoTool: todoTool, Logger: logger}
}

// AnalyzeFile parses one transcript file into SessionStats. Failing to open
// or read the file yields a failed Result; undecodable lines do not.
func (p *Parser) AnalyzeFile(path string) Result[SessionStats] {
	f, err := os.Open(path)
	if err != nil {
		return Fail[SessionStats](err)
	}
	defer func() { _ = f.Close() }()

	stats, err := p.ParseStats(f)
	if err != nil {
		return Fail[SessionStats](fmt.Errorf("reading %s: %w", path, err))
	}
	return Ok(stats)
}

// AnalyzeTokensFile is the token-only counterpart of AnalyzeFile.
func (p *Parser) AnalyzeTokensFile(path string) Result[TokenUsage] {
	f, err := os.Open(path)
	if err != nil {
		return Fail[TokenUsage](err)
	}
	defer func() { _ = f.Close() }()

	usage, err := p.ParseTokens(f)
	if err != nil {
		return Fail[TokenUsage](fmt.Errorf("reading %s: %w", path, err))
	}
	return Ok(usage)
}

// ParseStats reads JSONL records from r and accumulates SessionStats.
// Records are routed by their top-level "type":
//   - "user"      → message count, task-intent heuristic
//   - "assistant" → message count, token usage, tool histogram, todo use,
//     approval and limitation heuristics
//   - everything else → ignored
func (p *Parser) ParseStats(r io.Reader) (SessionStats, error) {
	stats := SessionStats{ToolUsePatterns: make(map[string]int)}

	skipped, err := scanEntries(r, func(entry *TranscriptEntry) {
		switch entry.Type {
		case "user":
			p.processUser(entry, &stats)
		case "assistant":
			p.processAssistant(entry, &stats)
		}
	})
	if err != nil {
		return SessionStats{}, err
	}
	if skipped > 0 {
		p.Logger.Debug("skipped undecodable transcript lines", "count", skipped)
	}

	stats.MessageCount = stats.UserMessages + stats.AssistantMessages
	return stats, nil
}

// ParseTokens reads JSONL records from r and sums assistant token usage.
func (p *Parser) ParseTokens(r io.Reader) (TokenUsage, error) {
	var usage TokenUsage

	skipped, err := scanEntries(r, func(entry *TranscriptEntry) {
		if entry.Type != "assistant" {
			return
		}
		usage.MessageCount++
		msg, ok := decodeMessage(entry.Message)
		if !ok || msg.Usage == nil {
			return
		}
		usage.TotalInput += msg.Usage.InputTokens
		usage.TotalOutput += msg.Usage.OutputTokens
		usage.TotalCacheCreate += msg.Usage.CacheCreationInputTokens
		usage.TotalCacheRead += msg.Usage.CacheReadInputTokens
	})
	if err != nil {
		return TokenUsage{}, err
	}
	if skipped > 0 {
		p.Logger.Debug("skipped undecodable transcript lines", "count", skipped)
	}
	return usage, nil
}

func (p *Parser) processUser(entry *TranscriptEntry, stats *SessionStats) {
	stats.UserMessages++

	msg, ok := decodeMessage(entry.Message)
	if !ok {
		return
	}
	if text := messageText(msg.Content); text != "" && p.Keywords.Task.Any(text) {
		stats.TaskMessages++
	}
}

func (p *Parser) processAssistant(entry *TranscriptEntry, stats *SessionStats) {
	stats.AssistantMessages++

	msg, ok := decodeMessage(entry.Message)
	if !ok {
		return
	}

	if msg.Usage != nil {
		stats.TotalInputTokens += msg.Usage.InputTokens
		stats.TotalOutputTokens += msg.Usage.OutputTokens
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err == nil {
		for _, block := range blocks {
			if block.Type != "tool_use" {
				continue
			}
			name := block.Name
			if name == "" {
				name = "unknown"
			}
			stats.ToolCalls++
			stats.ToolUsePatterns[name]++
			if name == p.TodoTool {
				stats.HasTodos = true
			}
		}
	}

	serialized := serializeContent(msg.Content)
	if p.Keywords.Approval.Any(serialized) {
		stats.ConstitutionalFlags.HumanApprovalSought++
	}
	if p.Keywords.Limitation.Any(serialized) {
		stats.ConstitutionalFlags.TransparentAboutLimitations++
	}
}

// scanEntries decodes each line of r as a TranscriptEntry and hands it to fn.
// It returns the number of lines that failed to decode and any read error.
func scanEntries(r io.Reader, fn func(entry *TranscriptEntry)) (int, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer for long JSONL lines.
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	skipped := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry TranscriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			skipped++
			continue
		}
		fn(&entry)
	}
	return skipped, scanner.Err()
}

func decodeMessage(raw json.RawMessage) (TranscriptMessage, bool) {
	var msg TranscriptMessage
	if len(raw) == 0 {
		return msg, false
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, false
	}
	return msg, true
}

// messageText extracts the human-readable text of a message's content, which
// is either a plain string or an array of blocks of which only "text" blocks
// contribute.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range blocks {
		if b.Type != "text" || b.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// serializeContent re-encodes content as compact JSON with unescaped UTF-8 so
// keyword matching sees the same characters regardless of how the transcript
// writer escaped them.
func serializeContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return string(raw)
	}
	return strings.TrimSpace(buf.String())
}

// ParseTimestamp parses an ISO 8601 timestamp string. It tries RFC3339Nano,
// RFC3339, and a plain datetime format without timezone. Returns the zero time
// if the string is empty or cannot be parsed by any supported format.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			// Fallback for datetime strings without a timezone suffix.
			t, err = time.Parse("2006-01-02T15:04:05", s)
			if err != nil {
				return time.Time{}
			}
		}
	}
	return t
}
