package scoring

import (
	"testing"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestDefaultConfig_WeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultConfig().Weights.Sum(), 1e-9)
	require.NoError(t, DefaultConfig().Validate())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weights sum", func(c *Config) { c.Weights.Message = 0.5 }},
		{"negative weight", func(c *Config) {
			c.Weights.Message = -0.1
			c.Weights.Task = 0.65
		}},
		{"empty grades", func(c *Config) { c.Grades = nil }},
		{"no fallback", func(c *Config) { c.FallbackGrade = "" }},
		{"not descending", func(c *Config) { c.Grades[2].MinScore = 91 }},
		{"duplicate threshold", func(c *Config) { c.Grades[1].MinScore = 95 }},
		{"inverted ratio window", func(c *Config) { c.TokenRatioWindow = Window{Low: 2, High: 1} }},
		{"inverted per-message window", func(c *Config) { c.TokensPerMessageWindow = Window{Low: 5000, High: 100} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestNew_CopiesGradeTable(t *testing.T) {
	cfg := DefaultConfig()
	e, err := New(cfg)
	require.NoError(t, err)

	cfg.Grades[0].Grade = "Z"
	assert.Equal(t, "A+", e.Grade(99))
}

func TestScore_FourMessageScenario(t *testing.T) {
	stats := &claude.SessionStats{
		MessageCount:      4,
		UserMessages:      2,
		AssistantMessages: 2,
		ToolCalls:         1,
		TaskMessages:      2,
		TotalInputTokens:  1000,
		TotalOutputTokens: 800,
		ToolUsePatterns:   map[string]int{"Read": 1},
	}
	res := newTestEngine(t).Score(stats)

	assert.Equal(t, Dimension{Score: 100, Reason: "normal"}, res.Dimensions[MessageEfficiency])
	assert.Equal(t, Dimension{Score: 100, Reason: "highly task-oriented"}, res.Dimensions[TaskCompletion])
	assert.Equal(t, Dimension{Score: 100, Reason: "reasonable"}, res.Dimensions[TokenEfficiency])
	assert.Equal(t, Dimension{Score: 35, Reason: "needs improvement"}, res.Dimensions[ConstitutionalCompliance])
	assert.InDelta(t, 87.0, res.OverallScore, 1e-9)
	assert.Equal(t, "A-", res.Grade)
	assert.NotNil(t, res.InefficientPatterns)
	assert.Empty(t, res.InefficientPatterns)

	res = newTestEngine(t).Evaluate(stats, patterns.NewDetector(patterns.DefaultThresholds()))
	require.Len(t, res.InefficientPatterns, 1)
	assert.Equal(t, patterns.MissingTodos, res.InefficientPatterns[0].Type)
}

func TestScore_ZeroUserMessages(t *testing.T) {
	stats := &claude.SessionStats{
		MessageCount:      1,
		AssistantMessages: 1,
		TotalInputTokens:  100,
		TotalOutputTokens: 50,
	}
	res := newTestEngine(t).Score(stats)
	assert.Equal(t, Dimension{Score: 0, Reason: "no user messages"}, res.Dimensions[TaskCompletion])
}

func TestScore_EmptySession(t *testing.T) {
	res := newTestEngine(t).Score(&claude.SessionStats{})
	assert.Equal(t, "no messages", res.Dimensions[MessageEfficiency].Reason)
	assert.Equal(t, "no token usage", res.Dimensions[TokenEfficiency].Reason)
	// Only the constitutional base contributes: 35 * 0.20.
	assert.InDelta(t, 7.0, res.OverallScore, 1e-9)
	assert.Equal(t, "F", res.Grade)

	assert.Equal(t, res, newTestEngine(t).Score(nil))
}

func TestScore_OverallWithinBounds(t *testing.T) {
	e := newTestEngine(t)
	cases := []claude.SessionStats{
		{},
		{MessageCount: 500, UserMessages: 250, AssistantMessages: 250, TotalInputTokens: 1, TotalOutputTokens: 1_000_000},
		{MessageCount: 2, UserMessages: 1, AssistantMessages: 1, TaskMessages: 1, ToolCalls: 3, HasTodos: true,
			TotalInputTokens: 1000, TotalOutputTokens: 500,
			ConstitutionalFlags: claude.ConstitutionalFlags{HumanApprovalSought: 40, TransparentAboutLimitations: 40}},
		{MessageCount: 30, UserMessages: 15, TaskMessages: 1, TotalInputTokens: 1_000_000, TotalOutputTokens: 1},
	}
	for i := range cases {
		res := e.Score(&cases[i])
		assert.GreaterOrEqual(t, res.OverallScore, 0.0)
		assert.LessOrEqual(t, res.OverallScore, 100.0)
		for name, d := range res.Dimensions {
			assert.GreaterOrEqual(t, d.Score, 0.0, name)
			assert.LessOrEqual(t, d.Score, 100.0, name)
		}
	}
}

func TestGrade_Table(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A+"}, {95, "A+"}, {94.9, "A"}, {90, "A"}, {85, "A-"},
		{80, "B+"}, {75, "B"}, {70, "B-"}, {65, "C+"}, {60, "C"},
		{55, "C-"}, {50, "D"}, {49.9, "F"}, {0, "F"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, e.Grade(tc.score), "score %v", tc.score)
	}
}

func TestGrade_Monotonic(t *testing.T) {
	e := newTestEngine(t)
	prev := e.Rank(e.Grade(0))
	for s := 0.0; s <= 100.0; s += 0.5 {
		rank := e.Rank(e.Grade(s))
		assert.LessOrEqual(t, rank, prev, "grade got worse at %v", s)
		prev = rank
	}
}

func TestGrades_Order(t *testing.T) {
	assert.Equal(t,
		[]string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "F"},
		newTestEngine(t).Grades())
}

func TestEvaluate_AttachesPatterns(t *testing.T) {
	stats := &claude.SessionStats{
		MessageCount:    2,
		ToolCalls:       7,
		ToolUsePatterns: map[string]int{"Search": 7},
	}
	res := newTestEngine(t).Evaluate(stats, patterns.NewDetector(patterns.DefaultThresholds()))
	require.Len(t, res.InefficientPatterns, 1)
	assert.Equal(t, patterns.RepeatedToolCalls, res.InefficientPatterns[0].Type)

	res = newTestEngine(t).Evaluate(stats, nil)
	assert.Empty(t, res.InefficientPatterns)
}
