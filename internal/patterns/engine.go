package patterns

import "github.com/blackwell-systems/sessiongrade/internal/claude"

// Detector runs an ordered rule set against session statistics.
type Detector struct {
	rules      []Rule
	thresholds Thresholds
}

// NewDetector creates a detector with all built-in rules registered.
func NewDetector(th Thresholds) *Detector {
	return &Detector{
		rules: []Rule{
			ExcessiveMessagesRule,
			LowTaskRatioRule,
			HighTokenWasteRule,
			RepeatedToolCallsRule,
			MissingTodosRule,
		},
		thresholds: th,
	}
}

// Thresholds returns the thresholds the detector was built with.
func (d *Detector) Thresholds() Thresholds {
	return d.thresholds
}

// Detect executes every rule in registration order and concatenates the
// results. The returned slice is never nil.
func (d *Detector) Detect(stats *claude.SessionStats) []Pattern {
	all := []Pattern{}
	if stats == nil {
		return all
	}
	for _, rule := range d.rules {
		all = append(all, rule(stats, d.thresholds)...)
	}
	return all
}

// Frequency counts, for each pattern type, how many of the given pattern
// lists contain it at least once.
func Frequency(lists ...[]Pattern) map[string]int {
	freq := make(map[string]int)
	for _, list := range lists {
		seen := make(map[string]bool, len(list))
		for _, p := range list {
			if seen[p.Type] {
				continue
			}
			seen[p.Type] = true
			freq[p.Type]++
		}
	}
	return freq
}
