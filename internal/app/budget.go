package app

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sessiongrade/internal/analyzer"
	"github.com/blackwell-systems/sessiongrade/internal/budget"
	"github.com/blackwell-systems/sessiongrade/internal/output"
	"github.com/blackwell-systems/sessiongrade/internal/report"
)

var (
	budgetFlagSuggest  bool
	budgetFlagTaskType string
	budgetFlagReport   string
)

var budgetCmd = &cobra.Command{
	Use:   "budget [project-path]",
	Short: "Summarize token usage and suggest task budgets",
	Long: `Budget totals token usage across the project's sessions, prices it with a
flat per-1K-token model, and sizes budgets for new tasks from the average
tokens per session, scaled by task type (small, medium, large, complex,
general). Each session is classified against the selected task type's budget.

With --suggest, only the budget for --task-type is printed.

The project path defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBudget,
}

func init() {
	budgetCmd.Flags().BoolVar(&budgetFlagSuggest, "suggest", false, "Print only the budget suggestion for --task-type")
	budgetCmd.Flags().StringVar(&budgetFlagTaskType, "task-type", budget.TaskGeneral, "Task type: small, medium, large, complex, general")
	budgetCmd.Flags().StringVar(&budgetFlagReport, "report", "", "Write a Markdown usage report to this file")

	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	project, err := resolveProject(args)
	if err != nil {
		return err
	}

	engine, err := budget.New(e.cfg.BudgetConfig())
	if err != nil {
		return err
	}
	if !slices.Contains(engine.TaskTypes(), budgetFlagTaskType) {
		e.logger.Warn("unknown task type, using default multiplier",
			"task_type", budgetFlagTaskType, "multiplier", engine.Multiplier(budgetFlagTaskType))
	}
	parser, err := e.parser()
	if err != nil {
		return err
	}

	entries, err := e.loadEntries(project)
	if err != nil {
		return err
	}
	analysis := analyzer.AnalyzeUsage(entries, parser, engine, budgetFlagTaskType)

	if budgetFlagReport != "" {
		meta := report.Meta{ProjectPath: project, GeneratedAt: time.Now()}
		if err := writeReportFile(budgetFlagReport, func(w io.Writer) error {
			return report.WriteUsage(w, analysis, meta)
		}); err != nil {
			return err
		}
		if e.format == formatText {
			fmt.Fprintln(e.out, output.StyleSuccess.Render("Report saved to "+budgetFlagReport))
		}
	}

	if budgetFlagSuggest {
		if e.format != formatText {
			return encode(e.out, e.format, analysis.Budget)
		}
		renderSuggestion(e.out, analysis.Budget, analysis.Summary)
		return nil
	}

	if e.format != formatText {
		return encode(e.out, e.format, analysis)
	}
	renderUsage(e.out, analysis)
	return nil
}

func renderSuggestion(w io.Writer, s budget.Suggestion, summary budget.ProjectSummary) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Budget: %s task", s.TaskType)))
	fmt.Fprintln(w)
	base := output.Tokens(int64(s.BaseTokens))
	if !summary.HasHistory() {
		base += output.StyleMuted.Render(" (no history, fallback)")
	}
	fmt.Fprintln(w, output.KeyValue("Base tokens:", base))
	fmt.Fprintln(w, output.KeyValue("Multiplier:", fmt.Sprintf("%gx", s.Multiplier)))
	fmt.Fprintln(w, output.KeyValue("Suggested input:", output.Tokens(s.SuggestedInput)))
	fmt.Fprintln(w, output.KeyValue("Suggested output:", output.Tokens(s.SuggestedOutput)))
	fmt.Fprintln(w, output.KeyValue("Suggested total:", output.Tokens(s.SuggestedTotal)))
	fmt.Fprintln(w, output.KeyValue("Warning at:", output.StyleWarning.Render(output.Tokens(s.WarningThreshold))))
	fmt.Fprintln(w, output.KeyValue("Critical at:", output.StyleError.Render(output.Tokens(s.CriticalThreshold))))
	fmt.Fprintln(w, output.KeyValue("Estimated cost:", output.Cost(s.EstimatedCost)))
	fmt.Fprintln(w)
}

func renderUsage(w io.Writer, a analyzer.UsageAnalysis) {
	s := a.Summary

	fmt.Fprintln(w, output.Section("Token Usage"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Sessions:", fmt.Sprintf("%d", a.TotalSessions)))
	fmt.Fprintln(w, output.KeyValue("Analyzed:", fmt.Sprintf("%d", s.AnalyzedSessions)))
	if s.FailedSessions > 0 {
		fmt.Fprintln(w, output.KeyValue("Failed:", output.StyleError.Render(fmt.Sprintf("%d", s.FailedSessions))))
	}
	fmt.Fprintln(w, output.KeyValue("Input tokens:", output.Tokens(s.TotalInput)))
	fmt.Fprintln(w, output.KeyValue("Output tokens:", output.Tokens(s.TotalOutput)))
	fmt.Fprintln(w, output.KeyValue("Cache creation:", output.Tokens(s.TotalCacheCreate)))
	fmt.Fprintln(w, output.KeyValue("Cache read:", output.Tokens(s.TotalCacheRead)))
	fmt.Fprintln(w, output.KeyValue("Total tokens:", output.Tokens(s.TotalTokens)))
	fmt.Fprintln(w, output.KeyValue("Estimated cost:", output.Cost(s.TotalCost)))
	if s.HasHistory() {
		fmt.Fprintln(w, output.KeyValue("Avg tokens/session:", output.Tokens(int64(s.AvgTokensPerSession+0.5))))
		fmt.Fprintln(w, output.KeyValue("Avg messages/session:", fmt.Sprintf("%.1f", s.AvgMessagesPerSession)))
	}

	if len(a.Sessions) > 0 {
		fmt.Fprintln(w, output.Section(fmt.Sprintf("Sessions vs %s budget (%s tokens)", a.TaskType, output.Tokens(a.Budget.SuggestedTotal))))
		fmt.Fprintln(w)
		tbl := output.NewTable("Session", "Created", "Messages", "Tokens", "Cost", "Status")
		for _, su := range a.Sessions {
			id := shortSessionID(su.SessionID)
			created := dateOnly(su.Created)
			if su.Failed() {
				tbl.AddRow(id, created, "-", "-", "-", output.StyleError.Render("error: "+su.Error))
				continue
			}
			t := su.Tokens
			tbl.AddRow(
				id,
				created,
				fmt.Sprintf("%d", t.MessageCount),
				output.Tokens(t.TotalTokens),
				output.Cost(t.CostEstimate),
				output.StatusStyle(string(su.Status)).Render(string(su.Status)),
			)
		}
		_ = tbl.Fprint(w)
	}

	fmt.Fprintln(w, output.Section("Budget Suggestions"))
	fmt.Fprintln(w)
	tbl := output.NewTable("Task", "Mult", "Input", "Output", "Total", "Warning", "Critical", "Est. cost")
	for _, sg := range a.Suggestions {
		tbl.AddRow(
			sg.TaskType,
			fmt.Sprintf("%gx", sg.Multiplier),
			output.Tokens(sg.SuggestedInput),
			output.Tokens(sg.SuggestedOutput),
			output.Tokens(sg.SuggestedTotal),
			output.Tokens(sg.WarningThreshold),
			output.Tokens(sg.CriticalThreshold),
			output.Cost(sg.EstimatedCost),
		)
	}
	_ = tbl.Fprint(w)
	if !s.HasHistory() {
		fmt.Fprintln(w, output.StyleMuted.Render(" No session history; budgets use the fallback base."))
	}
	fmt.Fprintln(w)
}
