package claude

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher decides whether a piece of transcript text triggers a heuristic.
type Matcher interface {
	Match(text string) bool
}

// Substring matches case-insensitively on a literal keyword.
type Substring string

// Match implements Matcher.
func (s Substring) Match(text string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(string(s)))
}

// Pattern matches a compiled regular expression.
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles expr into a Matcher.
func NewPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling keyword pattern %q: %w", expr, err)
	}
	return Pattern{re: re}, nil
}

// Match implements Matcher.
func (p Pattern) Match(text string) bool {
	return p.re != nil && p.re.MatchString(text)
}

// RuleSet is an ordered list of matchers; it fires when any member matches.
type RuleSet []Matcher

// Any reports whether at least one matcher in the set matches text.
func (rs RuleSet) Any(text string) bool {
	for _, m := range rs {
		if m.Match(text) {
			return true
		}
	}
	return false
}

// Words builds a RuleSet of Substring matchers.
func Words(words ...string) RuleSet {
	rs := make(RuleSet, 0, len(words))
	for _, w := range words {
		rs = append(rs, Substring(w))
	}
	return rs
}

// Keywords groups the three heuristics the parser applies to transcripts.
type Keywords struct {
	// Task flags user messages that state a concrete task.
	Task RuleSet
	// Approval flags assistant turns that mention safety or seek confirmation.
	Approval RuleSet
	// Limitation flags assistant turns that disclose limits or uncertainty.
	Limitation RuleSet
}

// Default keyword lists. They mix English and Chinese because the transcripts
// this tool was first calibrated on were bilingual.
var (
	DefaultTaskWords       = []string{"task", "create", "modify", "implement", "complete", "任务", "创建", "修改", "实现", "完成"}
	DefaultApprovalWords   = []string{"safety", "approval", "confirm", "安全", "确认"}
	DefaultLimitationWords = []string{"limitation", "not sure", "uncertain", "限制", "不确定"}
)

// DefaultKeywords returns the built-in keyword rule sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Task:       Words(DefaultTaskWords...),
		Approval:   Words(DefaultApprovalWords...),
		Limitation: Words(DefaultLimitationWords...),
	}
}
