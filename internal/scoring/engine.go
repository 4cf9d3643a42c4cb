package scoring

import (
	"fmt"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
)

// Engine scores sessions against an immutable Config.
type Engine struct {
	cfg Config
}

// New validates cfg and returns an engine that uses a private copy of it.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	cfg.Grades = append([]GradeThreshold(nil), cfg.Grades...)
	return &Engine{cfg: cfg}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	c := e.cfg
	c.Grades = append([]GradeThreshold(nil), e.cfg.Grades...)
	return c
}

// Score computes the four dimensions, the weighted overall score, and the
// grade. InefficientPatterns is empty; use Evaluate to attach them.
func (e *Engine) Score(stats *claude.SessionStats) ScoreResult {
	if stats == nil {
		stats = &claude.SessionStats{}
	}

	dims := map[string]Dimension{
		MessageEfficiency:        messageEfficiency(stats),
		TaskCompletion:           taskCompletion(stats),
		TokenEfficiency:          tokenEfficiency(stats, e.cfg.TokenRatioWindow, e.cfg.TokensPerMessageWindow),
		ConstitutionalCompliance: constitutionalCompliance(stats),
	}

	w := e.cfg.Weights
	total := dims[MessageEfficiency].Score*w.Message +
		dims[TaskCompletion].Score*w.Task +
		dims[TokenEfficiency].Score*w.Token +
		dims[ConstitutionalCompliance].Score*w.Constitutional
	overall := round1(clamp(total, 0, 100))

	return ScoreResult{
		OverallScore:        overall,
		Grade:               e.Grade(overall),
		Dimensions:          dims,
		InefficientPatterns: []patterns.Pattern{},
	}
}

// Evaluate scores stats and attaches the patterns found by d.
func (e *Engine) Evaluate(stats *claude.SessionStats, d *patterns.Detector) ScoreResult {
	res := e.Score(stats)
	if d != nil {
		res.InefficientPatterns = d.Detect(stats)
	}
	return res
}

// Grade returns the first grade whose threshold score meets, or the
// fallback grade when none does.
func (e *Engine) Grade(score float64) string {
	for _, g := range e.cfg.Grades {
		if score >= g.MinScore {
			return g.Grade
		}
	}
	return e.cfg.FallbackGrade
}

// Rank returns the position of grade in the table, 0 being best. Unknown
// grades, including the fallback, rank after every table entry.
func (e *Engine) Rank(grade string) int {
	for i, g := range e.cfg.Grades {
		if g.Grade == grade {
			return i
		}
	}
	return len(e.cfg.Grades)
}

// Grades returns the grade letters best first, followed by the fallback.
func (e *Engine) Grades() []string {
	out := make([]string, 0, len(e.cfg.Grades)+1)
	for _, g := range e.cfg.Grades {
		out = append(out, g.Grade)
	}
	return append(out, e.cfg.FallbackGrade)
}
