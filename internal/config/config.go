package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/sessiongrade/internal/budget"
	"github.com/blackwell-systems/sessiongrade/internal/claude"
	"github.com/blackwell-systems/sessiongrade/internal/patterns"
	"github.com/blackwell-systems/sessiongrade/internal/scoring"
	"github.com/spf13/viper"
)

// Config is the top-level sessiongrade configuration.
type Config struct {
	ClaudeHome string              `mapstructure:"claude_home"`
	Scoring    Scoring             `mapstructure:"scoring"`
	Patterns   patterns.Thresholds `mapstructure:"patterns"`
	Budget     Budget              `mapstructure:"budget"`
	Keywords   Keywords            `mapstructure:"keywords"`
	Output     Output              `mapstructure:"output"`
}

// Scoring holds the efficiency scoring tables.
type Scoring struct {
	Weights       Weights `mapstructure:"weights"`
	Grades        []Grade `mapstructure:"grades"`
	FallbackGrade string  `mapstructure:"fallback_grade"`

	// Windows are [low, high] pairs.
	TokenRatioWindow       []float64 `mapstructure:"token_ratio_window"`
	TokensPerMessageWindow []float64 `mapstructure:"tokens_per_message_window"`

	// TodoTool is the tool name that marks a session as tracking tasks.
	TodoTool string `mapstructure:"todo_tool"`
}

// Weights defines how much each dimension contributes to the overall score.
type Weights struct {
	Message        float64 `mapstructure:"message"`
	Task           float64 `mapstructure:"task"`
	Token          float64 `mapstructure:"token"`
	Constitutional float64 `mapstructure:"constitutional"`
}

// Grade is one row of the grade table.
type Grade struct {
	Grade string  `mapstructure:"grade"`
	Min   float64 `mapstructure:"min"`
}

// Budget holds pricing and budget sizing parameters.
type Budget struct {
	Pricing            budget.Pricing     `mapstructure:"pricing"`
	Multipliers        map[string]float64 `mapstructure:"multipliers"`
	DefaultMultiplier  float64            `mapstructure:"default_multiplier"`
	FallbackBaseTokens float64            `mapstructure:"fallback_base_tokens"`
	InputShare         float64            `mapstructure:"input_share"`
	WarningRatio       float64            `mapstructure:"warning_ratio"`
	CriticalRatio      float64            `mapstructure:"critical_ratio"`
}

// Keywords holds substring keyword lists. Pack, when set, names a TOML
// keyword pack whose non-empty tables replace these lists.
type Keywords struct {
	Task       []string `mapstructure:"task"`
	Approval   []string `mapstructure:"approval"`
	Limitation []string `mapstructure:"limitation"`
	Pack       string   `mapstructure:"pack"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func gradeDefaults(grades []Grade) []map[string]any {
	out := make([]map[string]any, len(grades))
	for i, g := range grades {
		out[i] = map[string]any{"grade": g.Grade, "min": g.Min}
	}
	return out
}

// multiplierDefaults registers the table as a nested map so a config file can
// add task types without dropping the built-in ones.
func multiplierDefaults(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("claude_home", DefaultClaudeHome)
	v.SetDefault("scoring.weights.message", DefaultScoring.Weights.Message)
	v.SetDefault("scoring.weights.task", DefaultScoring.Weights.Task)
	v.SetDefault("scoring.weights.token", DefaultScoring.Weights.Token)
	v.SetDefault("scoring.weights.constitutional", DefaultScoring.Weights.Constitutional)
	v.SetDefault("scoring.grades", gradeDefaults(DefaultScoring.Grades))
	v.SetDefault("scoring.fallback_grade", DefaultScoring.FallbackGrade)
	v.SetDefault("scoring.token_ratio_window", DefaultScoring.TokenRatioWindow)
	v.SetDefault("scoring.tokens_per_message_window", DefaultScoring.TokensPerMessageWindow)
	v.SetDefault("scoring.todo_tool", DefaultScoring.TodoTool)
	v.SetDefault("patterns.excessive_messages", DefaultPatterns.ExcessiveMessages)
	v.SetDefault("patterns.low_task_ratio", DefaultPatterns.LowTaskRatio)
	v.SetDefault("patterns.high_token_waste", DefaultPatterns.HighTokenWaste)
	v.SetDefault("patterns.repeated_tool_calls", DefaultPatterns.RepeatedToolCalls)
	v.SetDefault("patterns.missing_todos_min_messages", DefaultPatterns.MissingTodosMinMessages)
	v.SetDefault("budget.pricing.input_per_1k", DefaultBudget.Pricing.InputPer1K)
	v.SetDefault("budget.pricing.output_per_1k", DefaultBudget.Pricing.OutputPer1K)
	v.SetDefault("budget.pricing.cache_create_per_1k", DefaultBudget.Pricing.CacheCreatePer1K)
	v.SetDefault("budget.pricing.cache_read_per_1k", DefaultBudget.Pricing.CacheReadPer1K)
	v.SetDefault("budget.multipliers", multiplierDefaults(DefaultBudget.Multipliers))
	v.SetDefault("budget.default_multiplier", DefaultBudget.DefaultMultiplier)
	v.SetDefault("budget.fallback_base_tokens", DefaultBudget.FallbackBaseTokens)
	v.SetDefault("budget.input_share", DefaultBudget.InputShare)
	v.SetDefault("budget.warning_ratio", DefaultBudget.WarningRatio)
	v.SetDefault("budget.critical_ratio", DefaultBudget.CriticalRatio)
	v.SetDefault("keywords.task", DefaultKeywords.Task)
	v.SetDefault("keywords.approval", DefaultKeywords.Approval)
	v.SetDefault("keywords.limitation", DefaultKeywords.Limitation)
	v.SetDefault("keywords.pack", "")
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile)))
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.ClaudeHome = expandPath(cfg.ClaudeHome)
	cfg.Keywords.Pack = expandPath(cfg.Keywords.Pack)

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}

func window(name string, pair []float64) (scoring.Window, error) {
	if len(pair) != 2 {
		return scoring.Window{}, fmt.Errorf("%s must have exactly two values, got %d", name, len(pair))
	}
	return scoring.Window{Low: pair[0], High: pair[1]}, nil
}

// ScoringConfig converts the scoring section into an engine config. The
// result is validated by scoring.New, not here.
func (c *Config) ScoringConfig() (scoring.Config, error) {
	ratio, err := window("scoring.token_ratio_window", c.Scoring.TokenRatioWindow)
	if err != nil {
		return scoring.Config{}, err
	}
	perMsg, err := window("scoring.tokens_per_message_window", c.Scoring.TokensPerMessageWindow)
	if err != nil {
		return scoring.Config{}, err
	}

	grades := make([]scoring.GradeThreshold, len(c.Scoring.Grades))
	for i, g := range c.Scoring.Grades {
		grades[i] = scoring.GradeThreshold{Grade: g.Grade, MinScore: g.Min}
	}

	w := c.Scoring.Weights
	return scoring.Config{
		Weights: scoring.Weights{
			Message:        w.Message,
			Task:           w.Task,
			Token:          w.Token,
			Constitutional: w.Constitutional,
		},
		Grades:                 grades,
		FallbackGrade:          c.Scoring.FallbackGrade,
		TokenRatioWindow:       ratio,
		TokensPerMessageWindow: perMsg,
	}, nil
}

// BudgetConfig converts the budget section into an engine config.
func (c *Config) BudgetConfig() budget.Config {
	b := c.Budget
	return budget.Config{
		Pricing:            b.Pricing,
		Multipliers:        b.Multipliers,
		DefaultMultiplier:  b.DefaultMultiplier,
		FallbackBaseTokens: b.FallbackBaseTokens,
		InputShare:         b.InputShare,
		WarningRatio:       b.WarningRatio,
		CriticalRatio:      b.CriticalRatio,
	}
}

// PatternThresholds returns the pattern detector thresholds.
func (c *Config) PatternThresholds() patterns.Thresholds {
	return c.Patterns
}

// KeywordSet builds the parser's keyword rule sets from the configured lists,
// overlaid with the keyword pack when one is configured.
func (c *Config) KeywordSet() (claude.Keywords, error) {
	kw := claude.Keywords{
		Task:       claude.Words(c.Keywords.Task...),
		Approval:   claude.Words(c.Keywords.Approval...),
		Limitation: claude.Words(c.Keywords.Limitation...),
	}
	if c.Keywords.Pack == "" {
		return kw, nil
	}

	pack, err := LoadKeywordPack(c.Keywords.Pack)
	if err != nil {
		return claude.Keywords{}, err
	}
	return pack.Apply(kw)
}
