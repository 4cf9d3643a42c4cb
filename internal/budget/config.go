package budget

import (
	"errors"
	"fmt"
)

// Config is the immutable budget configuration injected into an Engine.
type Config struct {
	Pricing Pricing

	// Multipliers scales the historical per-session average by task type.
	Multipliers       map[string]float64
	DefaultMultiplier float64

	// FallbackBaseTokens is the base used when no session history exists.
	FallbackBaseTokens float64

	// InputShare is the fraction of a suggested total assigned to input.
	InputShare float64

	WarningRatio  float64
	CriticalRatio float64
}

// DefaultPricing returns the flat per-1K pricing model. Cache reads are free.
func DefaultPricing() Pricing {
	return Pricing{
		InputPer1K:       0.001,
		OutputPer1K:      0.005,
		CacheCreatePer1K: 0.0001,
		CacheReadPer1K:   0,
	}
}

// DefaultMultipliers returns the built-in task-type multiplier table.
func DefaultMultipliers() map[string]float64 {
	return map[string]float64{
		TaskSmall:   0.5,
		TaskMedium:  1.0,
		TaskLarge:   2.0,
		TaskComplex: 3.0,
		TaskGeneral: 1.2,
	}
}

// DefaultConfig returns the standard pricing, multipliers, and ratios.
func DefaultConfig() Config {
	return Config{
		Pricing:            DefaultPricing(),
		Multipliers:        DefaultMultipliers(),
		DefaultMultiplier:  1.0,
		FallbackBaseTokens: 15000,
		InputShare:         0.7,
		WarningRatio:       0.8,
		CriticalRatio:      0.95,
	}
}

// Validate checks the invariants the engine relies on.
func (c Config) Validate() error {
	p := c.Pricing
	if p.InputPer1K < 0 || p.OutputPer1K < 0 || p.CacheCreatePer1K < 0 || p.CacheReadPer1K < 0 {
		return errors.New("prices must be non-negative")
	}
	for name, r := range map[string]float64{
		"input share":    c.InputShare,
		"warning ratio":  c.WarningRatio,
		"critical ratio": c.CriticalRatio,
	} {
		if r <= 0 || r > 1 {
			return fmt.Errorf("%s %v is outside (0, 1]", name, r)
		}
	}
	if c.WarningRatio > c.CriticalRatio {
		return fmt.Errorf("warning ratio %v exceeds critical ratio %v", c.WarningRatio, c.CriticalRatio)
	}
	if c.DefaultMultiplier <= 0 {
		return fmt.Errorf("default multiplier %v must be positive", c.DefaultMultiplier)
	}
	for task, m := range c.Multipliers {
		if m <= 0 {
			return fmt.Errorf("multiplier for %q is %v, must be positive", task, m)
		}
	}
	if c.FallbackBaseTokens <= 0 {
		return fmt.Errorf("fallback base tokens %v must be positive", c.FallbackBaseTokens)
	}
	return nil
}
