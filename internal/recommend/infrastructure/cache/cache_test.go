package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/nextup-dev/nextup/pkg/observability"
)

var keyNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func keyCandidates() []domain.Candidate {
	return []domain.Candidate{
		{ID: "a", Title: "a", Importance: 5, Urgency: 5, Alignment: 5},
		{ID: "b", Title: "b", Importance: 7, Urgency: 3, Alignment: 5},
	}
}

func TestKey_Deterministic(t *testing.T) {
	rctx := domain.Context{Now: keyNow, EnergyRating: 5}
	w := domain.DefaultWeights()

	k1, err := Key(keyCandidates(), rctx, w, 3, "")
	require.NoError(t, err)
	k2, err := Key(keyCandidates(), rctx, w, 3, "")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64) // sha256 hex
}

func TestKey_SensitiveToInputs(t *testing.T) {
	rctx := domain.Context{Now: keyNow, EnergyRating: 5}
	w := domain.DefaultWeights()

	base, err := Key(keyCandidates(), rctx, w, 3, "")
	require.NoError(t, err)

	t.Run("candidate change", func(t *testing.T) {
		changed := keyCandidates()
		changed[0].Importance = 9
		k, err := Key(changed, rctx, w, 3, "")
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("context change", func(t *testing.T) {
		other := rctx
		other.EnergyRating = 9
		k, err := Key(keyCandidates(), other, w, 3, "")
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("weight change", func(t *testing.T) {
		other := w
		other.Urgency = 0.30
		other.Importance = 0.15
		k, err := Key(keyCandidates(), rctx, other, 3, "")
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("topN change", func(t *testing.T) {
		k, err := Key(keyCandidates(), rctx, w, 5, "")
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})

	t.Run("subject change", func(t *testing.T) {
		k, err := Key(keyCandidates(), rctx, w, 3, "a")
		require.NoError(t, err)
		assert.NotEqual(t, base, k)
	})
}

// Two invocations moments apart must share a key, or entries could
// never be hit and the cache would only ever hold dead weight.
func TestKey_IgnoresEvaluationTime(t *testing.T) {
	w := domain.DefaultWeights()

	first := domain.Context{Now: keyNow, EnergyRating: 5}
	second := domain.Context{Now: keyNow.Add(time.Second), EnergyRating: 5}

	k1, err := Key(keyCandidates(), first, w, 3, "")
	require.NoError(t, err)
	k2, err := Key(keyCandidates(), second, w, 3, "")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	result := &domain.Result{Ranked: []domain.PriorityResult{{ID: "a", Rank: 1}}}

	t.Run("get and set", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)

		_, ok := store.Get(ctx, "k")
		assert.False(t, ok)

		store.Set(ctx, "k", result)

		got, ok := store.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, result, got)
	})

	t.Run("expiry", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		current := keyNow
		store.now = func() time.Time { return current }

		store.Set(ctx, "k", result)

		current = current.Add(59 * time.Second)
		_, ok := store.Get(ctx, "k")
		assert.True(t, ok)

		current = current.Add(2 * time.Second)
		_, ok = store.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("mutating a hit leaves the cache intact", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		store.Set(ctx, "k", &domain.Result{Ranked: []domain.PriorityResult{
			{ID: "a", Rank: 1, Factors: []domain.FactorScore{{Name: "urgency", Raw: 90}}},
		}})

		got, ok := store.Get(ctx, "k")
		require.True(t, ok)
		got.Ranked[0].ID = "mangled"
		got.Ranked[0].Factors[0].Raw = -1

		fresh, ok := store.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "a", fresh.Ranked[0].ID)
		assert.Equal(t, 90.0, fresh.Ranked[0].Factors[0].Raw)
	})

	t.Run("mutating after set leaves the cache intact", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		original := &domain.Result{Explanation: domain.Explanation{
			Warnings: []string{"energy level mismatch"},
		}}
		store.Set(ctx, "k", original)
		original.Explanation.Warnings[0] = "mangled"

		fresh, ok := store.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []string{"energy level mismatch"}, fresh.Explanation.Warnings)
	})

	t.Run("invalidate drops everything", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		store.Set(ctx, "k1", result)
		store.Set(ctx, "k2", result)
		require.Equal(t, 2, store.Len())

		require.NoError(t, store.Invalidate(ctx))

		assert.Equal(t, 0, store.Len())
		_, ok := store.Get(ctx, "k1")
		assert.False(t, ok)
	})
}

func TestInvalidator(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	store.Set(ctx, "k", &domain.Result{})

	inv := NewInvalidator(store, nil, observability.NoopMetrics{})

	// All task lifecycle events must trigger invalidation.
	assert.ElementsMatch(t, []string{
		task.RoutingKeyCreated,
		task.RoutingKeyStarted,
		task.RoutingKeyUpdated,
		task.RoutingKeyCompleted,
		task.RoutingKeyArchived,
	}, inv.EventTypes())

	err := inv.Handle(ctx, &eventbus.ConsumedEvent{
		RoutingKey:  task.RoutingKeyCompleted,
		AggregateID: uuid.New(),
	})
	require.NoError(t, err)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}
