package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubjectNotFoundError_Message(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		contains  []string
		excludes  []string
	}{
		{
			name:     "no candidates at all",
			contains: []string{`"x"`, "no eligible candidates"},
		},
		{
			name:      "few candidates listed in full",
			available: []string{"a", "b"},
			contains:  []string{"a, b"},
			excludes:  []string{"more"},
		},
		{
			name:      "long list samples first five",
			available: []string{"a", "b", "c", "d", "e", "f", "g"},
			contains:  []string{"a, b, c, d, e", "(and 2 more)"},
			excludes:  []string{"f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &SubjectNotFoundError{ID: "x", Available: tt.available}
			msg := err.Error()

			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, msg, unwanted)
			}
		})
	}
}

func TestInvalidCandidateError_Message(t *testing.T) {
	withID := &InvalidCandidateError{ID: "abc", Reason: "importance out of range"}
	assert.Contains(t, withID.Error(), "abc")
	assert.Contains(t, withID.Error(), "importance out of range")

	withoutID := &InvalidCandidateError{Reason: "missing title"}
	assert.Contains(t, withoutID.Error(), "<missing id>")
}

func TestTimeoutError_UnwrapsDeadlineExceeded(t *testing.T) {
	err := &TimeoutError{Budget: 5 * time.Second}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "5s")
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Reason: "weights must sum to 1.0"}
	assert.Contains(t, err.Error(), "configuration error")
	assert.Contains(t, err.Error(), "weights must sum to 1.0")
}

func TestErrEmptyCandidateSet(t *testing.T) {
	assert.True(t, errors.Is(ErrEmptyCandidateSet, ErrEmptyCandidateSet))
	assert.Equal(t, "empty candidate set", ErrEmptyCandidateSet.Error())
}
