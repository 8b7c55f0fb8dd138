package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyCandidateSet signals that there was nothing to rank. The engine
// itself recovers from an empty set (empty ranked list plus a warning);
// this sentinel exists for callers that need to distinguish the case.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// InvalidCandidateError marks a candidate rejected before scoring due to
// missing or out-of-range fields. The candidate is skipped and logged,
// never fatal for the batch.
type InvalidCandidateError struct {
	ID     string
	Reason string
}

func (e *InvalidCandidateError) Error() string {
	id := e.ID
	if id == "" {
		id = "<missing id>"
	}
	return fmt.Sprintf("invalid candidate %s: %s", id, e.Reason)
}

// SubjectNotFoundError is returned when an explanation is requested for an
// id absent from the candidate set.
type SubjectNotFoundError struct {
	ID        string
	Available []string
}

func (e *SubjectNotFoundError) Error() string {
	const sample = 5
	if len(e.Available) == 0 {
		return fmt.Sprintf("candidate %q not found; no eligible candidates", e.ID)
	}
	shown := e.Available
	suffix := ""
	if len(shown) > sample {
		shown = shown[:sample]
		suffix = fmt.Sprintf(" (and %d more)", len(e.Available)-sample)
	}
	return fmt.Sprintf("candidate %q not found; available candidates: %s%s",
		e.ID, strings.Join(shown, ", "), suffix)
}

// ConfigurationError indicates an invalid weight vector or engine
// configuration. Raised at construction, never at call time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// TimeoutError indicates the caller-imposed budget was exceeded. The
// recommendation is never silently truncated.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("recommendation timed out after %s", e.Budget)
}

// Unwrap lets errors.Is match context.DeadlineExceeded.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
