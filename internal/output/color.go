// Package output provides styled terminal rendering helpers for sessiongrade.
package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for good grades and statuses.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for failing grades and exceeded budgets.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for middling grades and budget warnings.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

func init() {
	applyStyles(false)
}

func applyStyles(plain bool) {
	base := lipgloss.NewStyle()
	if plain {
		StyleHeader = base
		StyleSuccess = base
		StyleError = base
		StyleWarning = base
		StyleMuted = base
		StyleBold = base
		StyleLabel = base.Width(24)
		StyleValue = base.Width(14)
		return
	}
	StyleHeader = base.Foreground(ColorPrimary).Bold(true)
	StyleSuccess = base.Foreground(ColorSuccess)
	StyleError = base.Foreground(ColorError)
	StyleWarning = base.Foreground(ColorWarning)
	StyleMuted = base.Foreground(ColorMuted)
	StyleBold = base.Bold(true)
	StyleLabel = base.Width(24)
	StyleValue = base.Bold(true).Width(14)
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally by swapping every
// package-level style.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// AutoColor reports whether color should be used: it must be enabled and
// f must be a terminal.
func AutoColor(f *os.File, enabled bool) bool {
	if !enabled || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// GradeStyle picks a style by letter: A and B grades succeed, C and D warn,
// anything else is an error.
func GradeStyle(grade string) lipgloss.Style {
	switch {
	case strings.HasPrefix(grade, "A"), strings.HasPrefix(grade, "B"):
		return StyleSuccess
	case strings.HasPrefix(grade, "C"), strings.HasPrefix(grade, "D"):
		return StyleWarning
	default:
		return StyleError
	}
}

// StatusStyle picks a style for a budget status label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "ok":
		return StyleSuccess
	case "warning":
		return StyleWarning
	case "critical", "exceeded":
		return StyleError
	default:
		return StyleMuted
	}
}
