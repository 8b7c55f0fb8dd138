package engine

import (
	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// Confidence buckets.
const (
	BucketHigh   = "high"
	BucketMedium = "medium"
	BucketLow    = "low"
)

// soloConfidence is used when fewer than two candidates exist and no
// score gap can be measured.
const soloConfidence = 0.6

// EstimateConfidence computes the confidence for a recommendation from
// the score separation between subject and runner-up, penalized 0.1 per
// defaulted feature in the subject's feature set. runnerUp may be nil.
func EstimateConfidence(subject Scored, runnerUp *Scored) domain.Confidence {
	var value float64
	if runnerUp == nil {
		value = soloConfidence
	} else {
		gap := subject.Score - runnerUp.Score
		value = gap/30 + 0.5
		if value > 1 {
			value = 1
		}
	}

	value -= 0.1 * float64(subject.Features.DefaultedCount())
	if value < 0 {
		value = 0
	}

	return domain.Confidence{
		Value:  value,
		Bucket: bucketFor(value),
	}
}

func bucketFor(value float64) string {
	switch {
	case value >= 0.75:
		return BucketHigh
	case value >= 0.5:
		return BucketMedium
	default:
		return BucketLow
	}
}
