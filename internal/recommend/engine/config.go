// Package engine implements the priority calculation pipeline: feature
// extraction, time decay, weighted scoring, ranking, confidence
// estimation, and explanation generation. The pipeline is pure and
// synchronous; time is injected through the evaluation context, never
// read from the wall clock.
package engine

import (
	"fmt"
	"time"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// Config holds the tunable constants of the pipeline.
type Config struct {
	// DecayRate is the per-day exponential decay applied to urgency of
	// stale items.
	DecayRate float64
	// MinScoreFloor clamps decayed urgency so old items never vanish
	// entirely.
	MinScoreFloor float64
	// HorizonDays is the deadline window over which urgency ramps from
	// 0 to 100.
	HorizonDays int
	// DeadlineOverrideWindow is how close a deadline must be for decay
	// to be bypassed and urgency forced into the 90-100 band.
	DeadlineOverrideWindow time.Duration
}

// DefaultConfig returns the stock pipeline configuration.
func DefaultConfig() Config {
	return Config{
		DecayRate:              0.05,
		MinScoreFloor:          10,
		HorizonDays:            14,
		DeadlineOverrideWindow: 48 * time.Hour,
	}
}

func (c Config) validate() error {
	if c.DecayRate < 0 || c.DecayRate >= 1 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("decay rate must be in [0,1), got %v", c.DecayRate)}
	}
	if c.MinScoreFloor < 0 || c.MinScoreFloor > 100 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("min score floor must be in [0,100], got %v", c.MinScoreFloor)}
	}
	if c.HorizonDays <= 0 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("horizon must be positive, got %d days", c.HorizonDays)}
	}
	if c.DeadlineOverrideWindow < time.Hour {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("deadline override window must be at least 1h, got %s", c.DeadlineOverrideWindow)}
	}
	return nil
}
