// Package domain defines the inputs and outputs of the recommendation
// engine: candidates, evaluation context, weight vectors, and the ranked
// result with its explanation artifact. Everything here is transient,
// computed fresh per invocation.
package domain

import (
	"time"
)

// EnergyLevel is the energy a candidate demands, ordered low to peak so
// the distance between levels is meaningful.
type EnergyLevel int

const (
	EnergyLow EnergyLevel = iota + 1
	EnergyMedium
	EnergyHigh
	EnergyPeak
)

func (e EnergyLevel) String() string {
	switch e {
	case EnergyLow:
		return "low"
	case EnergyMedium:
		return "medium"
	case EnergyHigh:
		return "high"
	case EnergyPeak:
		return "peak"
	default:
		return "unknown"
	}
}

// EnergyFromRating maps a 1-10 self-reported energy rating onto the four
// levels: 1-3 low, 4-6 medium, 7-8 high, 9-10 peak. Out-of-range ratings
// clamp to the nearest level.
func EnergyFromRating(rating int) EnergyLevel {
	switch {
	case rating <= 3:
		return EnergyLow
	case rating <= 6:
		return EnergyMedium
	case rating <= 8:
		return EnergyHigh
	default:
		return EnergyPeak
	}
}

// Gap returns the absolute distance in levels between two energies.
func (e EnergyLevel) Gap(other EnergyLevel) int {
	d := int(e) - int(other)
	if d < 0 {
		d = -d
	}
	return d
}

// Candidate is a task or project being scored. It is a read-only snapshot
// assembled by the caller; the engine never mutates it.
type Candidate struct {
	ID            string `validate:"required"`
	Title         string `validate:"required"`
	Project       string
	Tags          []string
	Deadline      *time.Time
	EffortMinutes int `validate:"gte=0"`
	Importance    int `validate:"min=1,max=10"`
	Urgency       int `validate:"min=1,max=10"`
	Alignment     int `validate:"min=1,max=10"`
	Energy        EnergyLevel
	// LastActivity is the creation or last-progress timestamp, used for
	// time decay of stale items.
	LastActivity time.Time
}

// Validate rejects candidates with missing or out-of-range fields before
// scoring. Returns an InvalidCandidateError describing the first failure.
func (c Candidate) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &InvalidCandidateError{ID: c.ID, Reason: err.Error()}
	}
	return nil
}

// Completion records a recently finished candidate, used as a momentum
// signal when a pending candidate shares its project or tags.
type Completion struct {
	CandidateID  string
	Project      string
	Tags         []string
	Satisfaction int // 1-10
	CompletedAt  time.Time
}

// Context is the evaluation-time situation: current time, how much time
// and energy the user has, what mode they are in, and what they recently
// finished. Immutable for the duration of one scoring pass.
type Context struct {
	Now               time.Time
	AvailableMinutes  int
	EnergyRating      int // 1-10
	ContextTags       []string
	RecentCompletions []Completion
}

// CurrentEnergy returns the context's energy rating mapped to a level.
func (c Context) CurrentEnergy() EnergyLevel {
	return EnergyFromRating(c.EnergyRating)
}
