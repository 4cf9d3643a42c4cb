package scoring

import (
	"math"

	"github.com/blackwell-systems/sessiongrade/internal/claude"
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// messageEfficiency rewards short sessions; any tool use earns a bonus.
func messageEfficiency(stats *claude.SessionStats) Dimension {
	n := stats.MessageCount
	if n == 0 {
		return Dimension{Score: 0, Reason: "no messages"}
	}

	var score float64
	var reason string
	switch {
	case n <= 3:
		score, reason = 100, "concise"
	case n <= 10:
		score, reason = 90, "normal"
	case n <= 20:
		score, reason = 75, "somewhat high"
	default:
		score, reason = math.Max(50, 100-3*float64(n-20)), "excessive"
	}

	if stats.ToolCalls > 0 {
		score = math.Min(100, score+10)
	}
	return Dimension{Score: round1(score), Reason: reason}
}

// taskCompletion scores the share of user prompts that carry a task.
func taskCompletion(stats *claude.SessionStats) Dimension {
	ratio, ok := stats.TaskRatio()
	if !ok {
		return Dimension{Score: 0, Reason: "no user messages"}
	}

	var score float64
	var reason string
	switch {
	case ratio >= 0.8:
		score, reason = 100, "highly task-oriented"
	case ratio >= 0.5:
		score, reason = 85, "clear tasks"
	case ratio >= 0.3:
		score, reason = 70, "partially task-oriented"
	default:
		score, reason = math.Max(40, ratio*200), "weak task focus"
	}

	if stats.HasTodos {
		score = math.Min(100, score+5)
	}
	return Dimension{Score: round1(score), Reason: reason}
}

// tokenEfficiency scores the output/input balance, then adjusts for the
// average tokens per message.
func tokenEfficiency(stats *claude.SessionStats, ratioWin, perMsgWin Window) Dimension {
	ratio, ok := stats.TokenRatio()
	if !ok {
		return Dimension{Score: 0, Reason: "no token usage"}
	}

	var score float64
	var reason string
	switch {
	case ratioWin.Contains(ratio):
		score, reason = 100, "reasonable"
	case ratio < ratioWin.Low:
		score, reason = math.Max(50, ratio*300), "insufficient output"
	default:
		score, reason = math.Max(40, 150-50*(ratio-ratioWin.High)), "excessive output"
	}

	if stats.MessageCount > 0 {
		total := float64(stats.TotalInputTokens + stats.TotalOutputTokens)
		perMsg := total / float64(stats.MessageCount)
		switch {
		case perMsgWin.Contains(perMsg):
			score = math.Min(100, score+5)
		case perMsg < perMsgWin.Low:
			score = math.Min(100, score+10)
		default:
			score = math.Max(30, score-10)
		}
	}
	return Dimension{Score: round1(clamp(score, 0, 100)), Reason: reason}
}

// constitutionalCompliance credits approval seeking and candor about
// limitations on top of a fixed base. The raw formula tops out at 135, so the
// result is capped at 100.
func constitutionalCompliance(stats *claude.SessionStats) Dimension {
	const base = 70
	flags := stats.ConstitutionalFlags
	approval := math.Min(100, 25*float64(flags.HumanApprovalSought))
	transparency := math.Min(100, 25*float64(flags.TransparentAboutLimitations))
	score := (approval + transparency + base) / 2

	reason := "needs improvement"
	switch {
	case score >= 80:
		reason = "good"
	case score >= 60:
		reason = "basic"
	}
	return Dimension{Score: round1(math.Min(100, score)), Reason: reason}
}
