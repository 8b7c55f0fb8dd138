package engine

import (
	"math"
	"time"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// Adjuster applies exponential time decay to urgency so stale items fade,
// unless an imminent deadline overrides decay entirely.
type Adjuster struct {
	cfg Config
}

// NewAdjuster creates a time-decay adjuster with the given configuration.
func NewAdjuster(cfg Config) *Adjuster {
	return &Adjuster{cfg: cfg}
}

// Adjust returns the decayed urgency for a candidate. When the deadline
// falls inside the override window, decay is bypassed and urgency is
// forced into the 90-100 band, linearly higher as the deadline nears
// (100 at one hour or less). A past deadline stays at 100.
func (a *Adjuster) Adjust(base float64, c domain.Candidate, ctx domain.Context) float64 {
	if c.Deadline != nil {
		remaining := c.Deadline.Sub(ctx.Now)
		if remaining <= 0 {
			return 100
		}
		if remaining <= a.cfg.DeadlineOverrideWindow {
			return a.override(remaining)
		}
	}

	age := ctx.Now.Sub(c.LastActivity)
	if age <= 0 {
		return base
	}

	days := age.Hours() / 24
	adjusted := base * math.Pow(1-a.cfg.DecayRate, days)
	if adjusted < a.cfg.MinScoreFloor {
		return a.cfg.MinScoreFloor
	}
	return adjusted
}

// override maps remaining time inside the window onto 90-100.
func (a *Adjuster) override(remaining time.Duration) float64 {
	hours := remaining.Hours()
	if hours <= 1 {
		return 100
	}

	window := a.cfg.DeadlineOverrideWindow.Hours()
	// Linear from 100 at 1h down to 90 at the window edge.
	return 90 + 10*(window-hours)/(window-1)
}
