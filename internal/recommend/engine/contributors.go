package engine

import (
	"time"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// GTDContributor reinterprets the context factor through a strict
// next-action lens: a candidate only scores context points when it is
// actionable right now, meaning its tags all fit the current context and
// its effort fits the available slot.
type GTDContributor struct{}

// Name implements FeatureContributor.
func (GTDContributor) Name() string { return "gtd_next_action" }

// Contribute implements FeatureContributor.
func (GTDContributor) Contribute(c domain.Candidate, ctx domain.Context) FeatureSet {
	if len(c.Tags) == 0 || len(ctx.ContextTags) == 0 {
		return FeatureSet{FactorContext: {Raw: 50, Defaulted: true}}
	}

	current := make(map[string]bool, len(ctx.ContextTags))
	for _, tag := range ctx.ContextTags {
		current[tag] = true
	}

	for _, tag := range c.Tags {
		if !current[tag] {
			// Not actionable in this context.
			return FeatureSet{FactorContext: {Raw: 0}}
		}
	}

	if ctx.AvailableMinutes > 0 && c.EffortMinutes > ctx.AvailableMinutes {
		return FeatureSet{FactorContext: {Raw: 40}}
	}

	return FeatureSet{FactorContext: {Raw: 100}}
}

// EisenhowerContributor replaces the continuous importance and urgency
// factors with the four quadrants of the Eisenhower matrix.
type EisenhowerContributor struct {
	// UrgentWindow is how close a deadline must be to count as urgent.
	// Zero means 48 hours.
	UrgentWindow time.Duration
}

// Name implements FeatureContributor.
func (e EisenhowerContributor) Name() string { return "eisenhower" }

// Contribute implements FeatureContributor.
func (e EisenhowerContributor) Contribute(c domain.Candidate, ctx domain.Context) FeatureSet {
	window := e.UrgentWindow
	if window == 0 {
		window = 48 * time.Hour
	}

	urgent := c.Urgency >= 7
	if c.Deadline != nil && c.Deadline.Sub(ctx.Now) <= window {
		urgent = true
	}
	important := c.Importance >= 6

	switch {
	case urgent && important: // Q1: do first
		return FeatureSet{FactorUrgency: {Raw: 100}, FactorImportance: {Raw: 100}}
	case important: // Q2: schedule
		return FeatureSet{FactorUrgency: {Raw: 40}, FactorImportance: {Raw: 100}}
	case urgent: // Q3: delegate
		return FeatureSet{FactorUrgency: {Raw: 80}, FactorImportance: {Raw: 30}}
	default: // Q4: drop
		return FeatureSet{FactorUrgency: {Raw: 20}, FactorImportance: {Raw: 20}}
	}
}
