package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// The JSON field names are consumed by scripts and downstream tools;
// renaming any of them is a breaking change.
func TestResult_JSONContract(t *testing.T) {
	result := domain.Result{
		Ranked: []domain.PriorityResult{{
			ID:    "t1",
			Title: "write chapter",
			Score: 82.5,
			Rank:  1,
			Factors: []domain.FactorScore{{
				Name:         "urgency",
				Raw:          90,
				Weight:       0.25,
				Contribution: 22.5,
			}},
		}},
		Explanation: domain.Explanation{
			Subject: domain.SubjectRef{ID: "t1", Title: "write chapter"},
			ReasoningSteps: []domain.ReasoningStep{{
				Step: 1, Description: "d", Rationale: "r",
			}},
			Confidence: domain.Confidence{Value: 0.8, Bucket: "high"},
			PrimaryRecommendation: domain.Recommendation{
				Action: "a", Rationale: "r",
			},
			Alternatives: []domain.Alternative{{
				ID: "t2", Title: "other", Tradeoff: "lower urgency",
			}},
			Warnings: []string{},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "ranked")
	assert.Contains(t, raw, "explanation")

	var ranked []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["ranked"], &ranked))
	require.Len(t, ranked, 1)
	for _, key := range []string{"id", "title", "score", "rank", "factors"} {
		assert.Contains(t, ranked[0], key)
	}

	var factors []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(ranked[0]["factors"], &factors))
	require.Len(t, factors, 1)
	for _, key := range []string{"name", "raw", "weight", "contribution"} {
		assert.Contains(t, factors[0], key)
	}

	var explanation map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["explanation"], &explanation))
	for _, key := range []string{
		"subject", "reasoning_steps", "confidence",
		"primary_recommendation", "alternatives", "warnings",
	} {
		assert.Contains(t, explanation, key)
	}

	var confidence map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(explanation["confidence"], &confidence))
	assert.Contains(t, confidence, "value")
	assert.Contains(t, confidence, "bucket")
}
