// Package report renders efficiency and token-usage analyses as Markdown.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/sessiongrade/internal/scoring"
)

// Meta carries the context printed in a report header.
type Meta struct {
	ProjectPath string
	GeneratedAt time.Time

	// Weights, when set, adds a weight table to the efficiency report.
	Weights *scoring.Weights

	// GradeOrder lists grades best first. Grades not listed sort after it
	// alphabetically.
	GradeOrder []string
}

// mdWriter remembers the first write error so rendering code can stay linear.
type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func (m *mdWriter) header(title string, meta Meta) {
	m.printf("# %s\n\n", title)
	m.printf("**Generated**: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	m.printf("**Project**: %s\n\n---\n\n", meta.ProjectPath)
}

func (m *mdWriter) footer(tool string) {
	m.printf("\n---\n\n*Generated by sessiongrade %s*\n", tool)
}

// shortID abbreviates a session ID for headings.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

// day returns the date part of an ISO timestamp.
func day(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	if ts == "" {
		return "unknown"
	}
	return ts
}

func comma(n int64) string {
	return humanize.Comma(n)
}

func cost(v float64) string {
	return fmt.Sprintf("$%.4f", v)
}

func score(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// escapeCell keeps free text from breaking a Markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// orderedKeys returns the keys of counts ordered by order, then the rest
// alphabetically.
func orderedKeys(counts map[string]int, order []string) []string {
	keys := make([]string, 0, len(counts))
	for _, k := range order {
		if _, ok := counts[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range counts {
		if !slices.Contains(order, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
