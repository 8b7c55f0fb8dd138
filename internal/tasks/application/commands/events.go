// Package commands contains the write-side handlers for the tasks context.
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nextup-dev/nextup/internal/shared/domain"
	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
)

// publishDomainEvents drains an aggregate's uncommitted events onto the bus.
// Each event is wrapped in the envelope consumers expect.
func publishDomainEvents(ctx context.Context, pub eventbus.Publisher, agg domain.AggregateRoot) error {
	for _, event := range agg.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode event payload: %w", err)
		}

		envelope := eventbus.ConsumedEvent{
			EventID:       event.EventID(),
			AggregateID:   event.AggregateID(),
			AggregateType: event.AggregateType(),
			RoutingKey:    event.RoutingKey(),
			OccurredAt:    event.OccurredAt(),
			Payload:       payload,
		}

		body, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("failed to encode event envelope: %w", err)
		}

		if err := pub.Publish(ctx, event.RoutingKey(), body); err != nil {
			return err
		}
	}

	agg.ClearDomainEvents()
	return nil
}
