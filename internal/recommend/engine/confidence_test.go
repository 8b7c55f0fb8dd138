package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoredWith(score float64, defaulted int) Scored {
	fs := FeatureSet{}
	for i, name := range FactorOrder {
		fs[name] = Feature{Raw: 50, Defaulted: i < defaulted}
	}
	return Scored{Score: score, Features: fs}
}

func TestEstimateConfidence_SoloCandidate(t *testing.T) {
	conf := EstimateConfidence(scoredWith(70, 0), nil)

	assert.InDelta(t, 0.6, conf.Value, 1e-9)
	assert.Equal(t, BucketMedium, conf.Bucket)
}

func TestEstimateConfidence_GapScaling(t *testing.T) {
	tests := []struct {
		name      string
		gap       float64
		wantValue float64
	}{
		{name: "dead heat", gap: 0, wantValue: 0.5},
		{name: "moderate separation", gap: 6, wantValue: 0.7},
		{name: "wide separation caps at one", gap: 15, wantValue: 1.0},
		{name: "huge separation stays capped", gap: 60, wantValue: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject := scoredWith(70, 0)
			runnerUp := scoredWith(70-tt.gap, 0)

			conf := EstimateConfidence(subject, &runnerUp)

			assert.InDelta(t, tt.wantValue, conf.Value, 1e-9)
		})
	}
}

func TestEstimateConfidence_GapMonotonicity(t *testing.T) {
	prev := -1.0
	for gap := 0.0; gap <= 30; gap += 1.5 {
		runnerUp := scoredWith(70-gap, 0)
		conf := EstimateConfidence(scoredWith(70, 0), &runnerUp)

		assert.GreaterOrEqual(t, conf.Value, prev)
		prev = conf.Value
	}
}

func TestEstimateConfidence_DefaultedPenalty(t *testing.T) {
	runnerUp := scoredWith(40, 0)

	full := EstimateConfidence(scoredWith(70, 0), &runnerUp)
	twoMissing := EstimateConfidence(scoredWith(70, 2), &runnerUp)
	allMissing := EstimateConfidence(scoredWith(70, len(FactorOrder)), &runnerUp)

	assert.InDelta(t, 1.0, full.Value, 1e-9)
	assert.InDelta(t, 0.8, twoMissing.Value, 1e-9)
	assert.InDelta(t, 0.3, allMissing.Value, 1e-9)
}

func TestEstimateConfidence_NeverNegative(t *testing.T) {
	runnerUp := scoredWith(50, 0)
	conf := EstimateConfidence(scoredWith(50, len(FactorOrder)), &runnerUp)

	assert.GreaterOrEqual(t, conf.Value, 0.0)
	assert.Equal(t, BucketLow, conf.Bucket)
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 1.0, want: BucketHigh},
		{value: 0.75, want: BucketHigh},
		{value: 0.74, want: BucketMedium},
		{value: 0.5, want: BucketMedium},
		{value: 0.49, want: BucketLow},
		{value: 0.0, want: BucketLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketFor(tt.value), "value %.2f", tt.value)
	}
}
