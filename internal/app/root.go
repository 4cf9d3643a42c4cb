// Package app contains the Cobra command tree for sessiongrade.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor    bool
	flagJSON       bool
	flagFormat     string
	flagVerbose    bool
	flagConfig     string
	flagClaudeHome string
	flagKeywords   string
)

var rootCmd = &cobra.Command{
	Use:   "sessiongrade",
	Short: "Efficiency scores and token budgets for Claude Code sessions",
	Long: `sessiongrade reads a project's recorded Claude Code sessions and reports
two views of them: a weighted efficiency score and letter grade per session,
with the inefficient habits it detected, and a token budget model built from
the project's usage history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "sessiongrade", appVersion)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Use a subcommand:")
		fmt.Fprintln(w, "  score     Grade session efficiency and detect wasteful patterns")
		fmt.Fprintln(w, "  budget    Summarize token usage and suggest task budgets")
		fmt.Fprintln(w, "  keywords  Print the effective keyword pack as TOML")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/sessiongrade/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON (same as --format json)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", formatText, "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log skipped lines and sessions to stderr")
	rootCmd.PersistentFlags().StringVar(&flagClaudeHome, "claude-home", "", "Claude data directory (default: config claude_home)")
	rootCmd.PersistentFlags().StringVar(&flagKeywords, "keywords", "", "TOML keyword pack replacing the configured keyword lists")
}
