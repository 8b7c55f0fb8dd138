package engine

import (
	"fmt"
	"sort"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// scoreEpsilon is the band within which two scores count as tied and the
// deterministic tie-break applies.
const scoreEpsilon = 0.01

// Scored pairs a candidate with its computed score, factors, and the
// feature set the score came from.
type Scored struct {
	Candidate domain.Candidate
	Score     float64
	Factors   []domain.FactorScore
	Features  FeatureSet
}

// Rank orders scored candidates by score descending with a total-order
// tie-break: earlier deadline first (nil last), then higher importance,
// then lexicographically smaller id. Assigns ranks 1..N with no gaps.
// topN > 0 truncates without reordering the retained items.
func Rank(scored []Scored, topN int) []Scored {
	ranked := make([]Scored, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		diff := a.Score - b.Score
		if diff > scoreEpsilon {
			return true
		}
		if diff < -scoreEpsilon {
			return false
		}

		// Tied: earlier deadline wins, nil deadlines last.
		da, db := a.Candidate.Deadline, b.Candidate.Deadline
		switch {
		case da != nil && db == nil:
			return true
		case da == nil && db != nil:
			return false
		case da != nil && db != nil && !da.Equal(*db):
			return da.Before(*db)
		}

		if a.Candidate.Importance != b.Candidate.Importance {
			return a.Candidate.Importance > b.Candidate.Importance
		}

		return a.Candidate.ID < b.Candidate.ID
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return ranked
}

// ToResults converts ranked candidates into PriorityResults with 1-based
// ranks and reasoning bullets.
func ToResults(ranked []Scored) []domain.PriorityResult {
	results := make([]domain.PriorityResult, len(ranked))
	for i, s := range ranked {
		results[i] = domain.PriorityResult{
			ID:      s.Candidate.ID,
			Title:   s.Candidate.Title,
			Score:   s.Score,
			Rank:    i + 1,
			Factors: s.Factors,
			Reasons: reasonsFor(s),
		}
	}
	return results
}

// reasonsFor builds the free-text bullets: the primary factor plus any
// strong boosts and penalties.
func reasonsFor(s Scored) []string {
	var reasons []string

	if top := topFactor(s.Factors); top != nil {
		reasons = append(reasons, fmt.Sprintf("primary factor: %s (%.1f points)", top.Name, top.Contribution))
	}

	for _, f := range s.Factors {
		if f.Raw >= 80 {
			reasons = append(reasons, fmt.Sprintf("strong %s (%.0f/100)", f.Name, f.Raw))
		} else if f.Raw <= 20 {
			reasons = append(reasons, fmt.Sprintf("weak %s (%.0f/100)", f.Name, f.Raw))
		}
	}

	return reasons
}

// topFactor returns the factor with the highest contribution, canonical
// order breaking ties.
func topFactor(factors []domain.FactorScore) *domain.FactorScore {
	var top *domain.FactorScore
	for i := range factors {
		if top == nil || factors[i].Contribution > top.Contribution {
			top = &factors[i]
		}
	}
	return top
}
