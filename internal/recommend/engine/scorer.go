package engine

import (
	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// Scorer combines a feature set and a weight vector into a final score
// plus the per-factor breakdown. Deterministic: identical inputs always
// yield identical output, factors always in canonical order.
type Scorer struct {
	weights domain.Weights
}

// NewScorer creates a scorer for a validated weight vector.
func NewScorer(weights domain.Weights) *Scorer {
	return &Scorer{weights: weights}
}

// weightFor returns the weight for a canonical factor name.
func (s *Scorer) weightFor(name string) float64 {
	switch name {
	case FactorUrgency:
		return s.weights.Urgency
	case FactorImportance:
		return s.weights.Importance
	case FactorEffort:
		return s.weights.Effort
	case FactorAlignment:
		return s.weights.Alignment
	case FactorMomentum:
		return s.weights.Momentum
	case FactorEnergy:
		return s.weights.Energy
	case FactorContext:
		return s.weights.Context
	default:
		return 0
	}
}

// Score computes the weighted final score, clamped to [0,100], and one
// FactorScore per feature in canonical order.
func (s *Scorer) Score(fs FeatureSet) (float64, []domain.FactorScore) {
	factors := make([]domain.FactorScore, 0, len(FactorOrder))
	total := 0.0

	for _, name := range FactorOrder {
		feature := fs[name]
		weight := s.weightFor(name)
		contribution := feature.Raw * weight
		total += contribution

		factors = append(factors, domain.FactorScore{
			Name:         name,
			Raw:          feature.Raw,
			Weight:       weight,
			Contribution: contribution,
		})
	}

	return clamp(total), factors
}
