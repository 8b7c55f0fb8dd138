// Package cache holds recommendation results keyed by a fingerprint of
// the candidate set, context, and weights. Entries are invalidated
// whenever task events change the underlying candidate set.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// Store is a recommendation result cache.
type Store interface {
	Get(ctx context.Context, key string) (*domain.Result, bool)
	Set(ctx context.Context, key string, result *domain.Result)
	// Invalidate drops all entries. Called when the candidate set
	// changes.
	Invalidate(ctx context.Context) error
}

// keyInput is everything that determines a recommendation outcome.
type keyInput struct {
	Candidates []domain.Candidate `json:"candidates"`
	Context    domain.Context     `json:"context"`
	Weights    domain.Weights     `json:"weights"`
	TopN       int                `json:"top_n"`
	Subject    string             `json:"subject,omitempty"`
}

// Key fingerprints the inputs of one recommendation pass. Identical
// inputs always map to the same key. The evaluation time is excluded
// from the fingerprint: entries outlive a single call, with staleness
// bounded by the TTL and task-event invalidation.
func Key(candidates []domain.Candidate, rctx domain.Context, weights domain.Weights, topN int, subject string) (string, error) {
	rctx.Now = time.Time{}
	payload, err := json.Marshal(keyInput{
		Candidates: candidates,
		Context:    rctx,
		Weights:    weights,
		TopN:       topN,
		Subject:    subject,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint recommendation inputs: %w", err)
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// entry is one cached result with its expiry.
type entry struct {
	result    *domain.Result
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)
