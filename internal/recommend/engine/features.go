package engine

import (
	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// Canonical factor names. Scoring and explanation always iterate factors
// in FactorOrder so output is deterministic.
const (
	FactorUrgency    = "urgency"
	FactorImportance = "importance"
	FactorEffort     = "effort"
	FactorAlignment  = "alignment"
	FactorMomentum   = "momentum"
	FactorEnergy     = "energy"
	FactorContext    = "context"
)

// FactorOrder is the canonical iteration order for the seven factors.
var FactorOrder = []string{
	FactorUrgency,
	FactorImportance,
	FactorEffort,
	FactorAlignment,
	FactorMomentum,
	FactorEnergy,
	FactorContext,
}

// Feature is one normalized factor value in [0,100]. Defaulted marks
// values derived from missing input; each defaulted feature costs the
// winner 0.1 confidence.
type Feature struct {
	Raw       float64
	Defaulted bool
}

// FeatureSet maps factor name to its extracted feature. Always contains
// exactly the seven canonical factors after extraction.
type FeatureSet map[string]Feature

// DefaultedCount returns how many features were derived from missing or
// defaulted inputs.
func (fs FeatureSet) DefaultedCount() int {
	n := 0
	for _, f := range fs {
		if f.Defaulted {
			n++
		}
	}
	return n
}

// clamp bounds v to [0,100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// rescale maps a 1-10 rating onto 0-100.
func rescale(rating int) float64 {
	return float64(rating-1) / 9.0 * 100.0
}

// effortReferenceMinutes is the slot assumed when the context carries no
// time budget: a full 8-hour day.
const effortReferenceMinutes = 480

// Extractor normalizes a candidate plus context into the seven factors.
type Extractor struct {
	cfg Config
}

// NewExtractor creates a feature extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract produces the full feature set for one candidate. Urgency here is
// the pre-decay base; the adjuster applies decay and deadline overrides.
func (e *Extractor) Extract(c domain.Candidate, ctx domain.Context) FeatureSet {
	fs := make(FeatureSet, len(FactorOrder))

	fs[FactorUrgency] = e.urgency(c, ctx)
	fs[FactorImportance] = Feature{Raw: rescale(c.Importance)}
	fs[FactorAlignment] = Feature{Raw: rescale(c.Alignment)}
	fs[FactorEffort] = e.effortFit(c, ctx)
	fs[FactorEnergy] = e.energyMatch(c, ctx)
	fs[FactorContext] = e.contextMatch(c, ctx)
	fs[FactorMomentum] = e.momentum(c, ctx)

	return fs
}

// urgency ramps from 0 to 100 as the deadline approaches over the
// configured horizon. No deadline yields a defaulted base of 30; a past
// deadline pins urgency at 100.
func (e *Extractor) urgency(c domain.Candidate, ctx domain.Context) Feature {
	if c.Deadline == nil {
		return Feature{Raw: 30, Defaulted: true}
	}

	remaining := c.Deadline.Sub(ctx.Now)
	if remaining <= 0 {
		return Feature{Raw: 100}
	}

	horizon := float64(e.cfg.HorizonDays) * 24
	hours := remaining.Hours()
	return Feature{Raw: clamp(100 * (1 - hours/horizon))}
}

// effortFit scores how well the estimated effort fits the available slot.
// Candidates that do not fit score at most 20.
func (e *Extractor) effortFit(c domain.Candidate, ctx domain.Context) Feature {
	if c.EffortMinutes <= 0 {
		return Feature{Raw: 50, Defaulted: true}
	}

	budget := ctx.AvailableMinutes
	defaulted := false
	if budget <= 0 {
		budget = effortReferenceMinutes
		defaulted = true
	}

	ratio := float64(c.EffortMinutes) / float64(budget)
	if ratio > 1 {
		over := ratio - 1
		return Feature{Raw: clamp(20 - over*10), Defaulted: defaulted}
	}
	return Feature{Raw: clamp(100 - 80*ratio), Defaulted: defaulted}
}

// energyMatch compares the candidate's required energy against the
// context's current level. Exact match scores 100; each level of gap
// costs 50, so a two-level gap scores 0.
func (e *Extractor) energyMatch(c domain.Candidate, ctx domain.Context) Feature {
	required := c.Energy
	if required == 0 {
		required = domain.EnergyMedium
	}

	if ctx.EnergyRating <= 0 {
		// Unknown current energy: assume medium.
		gap := required.Gap(domain.EnergyMedium)
		return Feature{Raw: clamp(100 - float64(gap)*50), Defaulted: true}
	}

	gap := required.Gap(ctx.CurrentEnergy())
	return Feature{Raw: clamp(100 - float64(gap)*50)}
}

// contextMatch scores tag overlap between the candidate and the current
// context, proportional to how many of the candidate's tags match.
func (e *Extractor) contextMatch(c domain.Candidate, ctx domain.Context) Feature {
	if len(c.Tags) == 0 || len(ctx.ContextTags) == 0 {
		return Feature{Raw: 50, Defaulted: true}
	}

	current := make(map[string]bool, len(ctx.ContextTags))
	for _, tag := range ctx.ContextTags {
		current[tag] = true
	}

	matched := 0
	for _, tag := range c.Tags {
		if current[tag] {
			matched++
		}
	}

	return Feature{Raw: clamp(100 * float64(matched) / float64(len(c.Tags)))}
}

// momentumSatisfactionMin is the satisfaction rating a recent completion
// needs before it counts as a momentum signal.
const momentumSatisfactionMin = 7

// momentum rewards candidates that share a project or tag with a recent,
// satisfying completion. Baseline is 50; a match boosts by 20.
func (e *Extractor) momentum(c domain.Candidate, ctx domain.Context) Feature {
	if len(ctx.RecentCompletions) == 0 {
		return Feature{Raw: 50, Defaulted: true}
	}

	tags := make(map[string]bool, len(c.Tags))
	for _, tag := range c.Tags {
		tags[tag] = true
	}

	for _, done := range ctx.RecentCompletions {
		if done.Satisfaction < momentumSatisfactionMin {
			continue
		}
		if done.Project != "" && done.Project == c.Project {
			return Feature{Raw: clamp(50 + 20)}
		}
		for _, tag := range done.Tags {
			if tags[tag] {
				return Feature{Raw: clamp(50 + 20)}
			}
		}
	}

	return Feature{Raw: 50}
}
