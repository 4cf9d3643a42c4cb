package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sessiongrade/internal/analyzer"
	"github.com/blackwell-systems/sessiongrade/internal/output"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
	"github.com/blackwell-systems/sessiongrade/internal/report"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
)

var (
	scoreFlagReport   string
	scoreFlagMinScore float64
	scoreFlagLimit    int
)

var scoreCmd = &cobra.Command{
	Use:   "score [project-path]",
	Short: "Grade session efficiency and detect wasteful patterns",
	Long: `Score analyzes every session in the project's session index and grades it
on four weighted dimensions: message efficiency, task completion, token
efficiency, and constitutional compliance. Sessions that cannot be read are
reported and left out of the trend statistics.

The project path defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFlagReport, "report", "", "Write a Markdown report to this file")
	scoreCmd.Flags().Float64Var(&scoreFlagMinScore, "min-score", 0, "Only list sessions scoring >= this value (trends still cover all sessions)")
	scoreCmd.Flags().IntVar(&scoreFlagLimit, "limit", 0, "Analyze only the N most recent sessions (0 = all)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	project, err := resolveProject(args)
	if err != nil {
		return err
	}

	sc, err := e.cfg.ScoringConfig()
	if err != nil {
		return fmt.Errorf("loading scoring config: %w", err)
	}
	engine, err := scoring.New(sc)
	if err != nil {
		return err
	}
	parser, err := e.parser()
	if err != nil {
		return err
	}
	detector := patterns.NewDetector(e.cfg.PatternThresholds())

	entries, err := e.loadEntries(project)
	if err != nil {
		return err
	}
	analysis := analyzer.AnalyzeEfficiency(selectEntries(entries, scoreFlagLimit), parser, engine, detector)

	if scoreFlagReport != "" {
		meta := report.Meta{
			ProjectPath: project,
			GeneratedAt: time.Now(),
			Weights:     &sc.Weights,
			GradeOrder:  engine.Grades(),
		}
		if err := writeReportFile(scoreFlagReport, func(w io.Writer) error {
			return report.WriteEfficiency(w, analysis, meta)
		}); err != nil {
			return err
		}
		if e.format == formatText {
			fmt.Fprintln(e.out, output.StyleSuccess.Render("Report saved to "+scoreFlagReport))
		}
	}

	visible := filterByScore(analysis.Sessions, scoreFlagMinScore)
	if e.format != formatText {
		analysis.Sessions = visible
		return encode(e.out, e.format, analysis)
	}
	renderScoreTable(e.out, visible)
	renderTrends(e.out, analysis, engine)
	return nil
}

// filterByScore drops successful sessions scoring below threshold. Failed sessions
// are always kept so their errors stay visible.
func filterByScore(sessions []analyzer.SessionEfficiency, threshold float64) []analyzer.SessionEfficiency {
	if threshold <= 0 {
		return sessions
	}
	out := make([]analyzer.SessionEfficiency, 0, len(sessions))
	for _, s := range sessions {
		if s.Failed() || s.Efficiency.OverallScore >= threshold {
			out = append(out, s)
		}
	}
	return out
}

// writeReportFile creates path and renders into it.
func writeReportFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func renderScoreTable(w io.Writer, sessions []analyzer.SessionEfficiency) {
	fmt.Fprintln(w, output.Section("Session Efficiency"))
	fmt.Fprintln(w)

	if len(sessions) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No sessions found."))
		return
	}

	tbl := output.NewTable("Session", "Created", "Score", "Grade", "Patterns", "First prompt")
	for _, s := range sessions {
		id := shortSessionID(s.SessionID)
		created := dateOnly(s.Created)
		if s.Failed() {
			tbl.AddRow(id, created, output.StyleError.Render("error"), "-", "-", output.StyleMuted.Render(s.Error))
			continue
		}
		eff := s.Efficiency
		tbl.AddRow(
			id,
			created,
			output.ScoreBar(eff.OverallScore, 10),
			output.GradeStyle(eff.Grade).Render(eff.Grade),
			fmt.Sprintf("%d", len(eff.InefficientPatterns)),
			truncate(s.FirstPrompt, 40),
		)
	}
	_ = tbl.Fprint(w)
}

func renderTrends(w io.Writer, a analyzer.EfficiencyAnalysis, engine *scoring.Engine) {
	tr := a.Trends
	fmt.Fprintln(w, output.Section("Trends"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Sessions:", fmt.Sprintf("%d", a.TotalSessions)))
	fmt.Fprintln(w, output.KeyValue("Analyzed:", fmt.Sprintf("%d", tr.TotalAnalyzed)))
	if tr.Failed > 0 {
		fmt.Fprintln(w, output.KeyValue("Failed:", output.StyleError.Render(fmt.Sprintf("%d", tr.Failed))))
	}
	if tr.TotalAnalyzed == 0 {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, output.KeyValue("Average score:", fmt.Sprintf("%.1f", tr.AverageScore)))
	fmt.Fprintln(w, output.KeyValue("Highest score:", fmt.Sprintf("%.1f", tr.HighestScore)))
	fmt.Fprintln(w, output.KeyValue("Lowest score:", fmt.Sprintf("%.1f", tr.LowestScore)))

	fmt.Fprintln(w, output.Section("Grades"))
	fmt.Fprintln(w)
	grades := output.NewTable("Grade", "Sessions")
	for _, g := range engine.Grades() {
		if n := tr.GradeDistribution[g]; n > 0 {
			grades.AddRow(output.GradeStyle(g).Render(g), fmt.Sprintf("%d", n))
		}
	}
	_ = grades.Fprint(w)

	if len(tr.PatternFrequency) == 0 {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, output.Section("Patterns"))
	fmt.Fprintln(w)
	pats := output.NewTable("Pattern", "Sessions")
	for _, p := range sortedKeys(tr.PatternFrequency) {
		pats.AddRow(p, fmt.Sprintf("%d", tr.PatternFrequency[p]))
	}
	_ = pats.Fprint(w)
	fmt.Fprintln(w)
}
