package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/config"
	"github.com/blackwell-systems/sessiongrade/internal/output"
)

// env is the per-invocation state shared by subcommands.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	format string
	out    io.Writer
}

// newLogger returns a text logger on w: debug when verbose, warnings otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadEnv loads configuration and applies the persistent flags on top of it.
func loadEnv(cmd *cobra.Command) (*env, error) {
	format, err := outputFormat()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagClaudeHome != "" {
		cfg.ClaudeHome = flagClaudeHome
	}
	if flagKeywords != "" {
		cfg.Keywords.Pack = flagKeywords
	}

	out := cmd.OutOrStdout()
	color := cfg.Output.Color && !flagNoColor
	if f, ok := out.(*os.File); ok {
		color = output.AutoColor(f, color)
	} else {
		color = false
	}
	output.SetNoColor(!color)

	return &env{
		cfg:    cfg,
		logger: newLogger(cmd.ErrOrStderr(), flagVerbose),
		format: format,
		out:    out,
	}, nil
}

// parser builds a transcript parser from the configured keywords.
func (e *env) parser() (*claude.Parser, error) {
	kw, err := e.cfg.KeywordSet()
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}
	return claude.NewParser(kw, e.cfg.Scoring.TodoTool, e.logger), nil
}

// resolveProject returns the absolute project path from args, defaulting to
// the working directory.
func resolveProject(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving project path: %w", err)
	}
	return abs, nil
}

// loadEntries finds and loads the project's session index. A project without
// an index has no sessions.
func (e *env) loadEntries(project string) ([]claude.IndexEntry, error) {
	path, err := claude.FindSessionIndex(project, e.cfg.ClaudeHome)
	if err != nil {
		return nil, fmt.Errorf("finding session index: %w", err)
	}
	if path == "" {
		e.logger.Warn("no session index found", "project", project)
		return nil, nil
	}
	e.logger.Debug("using session index", "path", path)

	idx, err := claude.LoadSessionIndex(path)
	if err != nil {
		return nil, fmt.Errorf("loading session index: %w", err)
	}
	return idx.Entries, nil
}

// selectEntries keeps the limit most recently created entries in their index
// order. A limit of zero or less keeps everything.
func selectEntries(entries []claude.IndexEntry, limit int) []claude.IndexEntry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ta := claude.ParseTimestamp(entries[a].Created)
		tb := claude.ParseTimestamp(entries[b].Created)
		return tb.Compare(ta)
	})

	keep := make(map[int]bool, limit)
	for _, i := range order[:limit] {
		keep[i] = true
	}
	out := make([]claude.IndexEntry, 0, limit)
	for i, e := range entries {
		if keep[i] {
			out = append(out, e)
		}
	}
	return out
}
