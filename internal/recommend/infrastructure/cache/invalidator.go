package cache

import (
	"context"
	"log/slog"

	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/nextup-dev/nextup/pkg/observability"
)

// Invalidator drops cached recommendations whenever a task event changes
// the candidate set.
type Invalidator struct {
	store   Store
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewInvalidator creates a cache-invalidating event consumer.
func NewInvalidator(store Store, logger *slog.Logger, metrics observability.Metrics) *Invalidator {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Invalidator{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

var _ eventbus.EventConsumer = (*Invalidator)(nil)

// EventTypes implements eventbus.EventConsumer. Any lifecycle change to
// a task can change the candidate set.
func (i *Invalidator) EventTypes() []string {
	return []string{
		task.RoutingKeyCreated,
		task.RoutingKeyStarted,
		task.RoutingKeyUpdated,
		task.RoutingKeyCompleted,
		task.RoutingKeyArchived,
	}
}

// Handle implements eventbus.EventConsumer.
func (i *Invalidator) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if err := i.store.Invalidate(ctx); err != nil {
		return err
	}

	i.metrics.Counter(observability.MetricRecommendInvalidation, 1)
	i.logger.Debug("recommendation cache invalidated",
		"routing_key", event.RoutingKey,
		"aggregate_id", event.AggregateID,
	)
	return nil
}
