// Package eventbus carries domain events between bounded contexts. In server
// mode events go through RabbitMQ; in local mode a synchronous in-process bus
// dispatches them to registered consumers.
package eventbus

import (
	"context"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}
