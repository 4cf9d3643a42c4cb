package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ScoreBar renders a visual progress bar for a 0-100 score.
// Example: "████████░░ 80.0/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((score / 100.0) * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleError
	switch {
	case score >= 70:
		style = StyleSuccess
	case score >= 50:
		style = StyleWarning
	}

	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%.1f/100", score)))
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue returns one aligned " label  value" line.
func KeyValue(label, value string) string {
	return " " + StyleLabel.Render(label) + StyleValue.Render(value)
}

// Tokens formats a token count with thousands separators.
func Tokens(n int64) string {
	return humanize.Comma(n)
}

// Cost formats a dollar amount to four decimal places.
func Cost(v float64) string {
	return "$" + humanize.FormatFloat("#,###.####", v)
}
