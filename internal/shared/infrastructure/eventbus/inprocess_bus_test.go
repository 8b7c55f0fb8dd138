package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"tasks.task.created"},
	}
	bus.RegisterConsumer(consumer)

	event := &eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "Task",
		RoutingKey:    "tasks.task.created",
		OccurredAt:    time.Now(),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "tasks.task.created", payload)
	require.NoError(t, err)

	require.Len(t, consumer.events, 1)
	assert.Equal(t, event.EventID, consumer.events[0].EventID)
}

func TestInProcessEventBus_PublishFillsRoutingKey(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"tasks.task.updated"},
	}
	bus.RegisterConsumer(consumer)

	// Envelope without a routing key: the publish argument fills it in.
	payload, err := json.Marshal(&eventbus.ConsumedEvent{EventID: uuid.New()})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "tasks.task.updated", payload)
	require.NoError(t, err)

	require.Len(t, consumer.events, 1)
	assert.Equal(t, "tasks.task.updated", consumer.events[0].RoutingKey)
}

func TestInProcessEventBus_PublishDomainEvent(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{task.RoutingKeyCompleted},
	}
	bus.RegisterConsumer(consumer)

	nine := 9
	event := task.NewTaskCompleted(uuid.New(), "book", []string{"writing"}, &nine)

	err := bus.PublishDomainEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, consumer.events, 1)
	got := consumer.events[0]
	assert.Equal(t, event.EventID(), got.EventID)
	assert.Equal(t, event.AggregateID(), got.AggregateID)
	assert.Equal(t, "Task", got.AggregateType)
	assert.Equal(t, task.RoutingKeyCompleted, got.RoutingKey)
	assert.NotEmpty(t, got.Payload)
}

func TestInProcessEventBus_NoConsumers(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	payload, err := json.Marshal(&eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: "unknown.event.type",
	})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "unknown.event.type", payload)
	require.NoError(t, err)
}

func TestInProcessEventBus_ConsumerErrorDoesNotFailPublish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"tasks.task.created"},
		err:        errors.New("consumer error"),
	}
	bus.RegisterConsumer(consumer)

	payload, err := json.Marshal(&eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: "tasks.task.created",
	})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "tasks.task.created", payload)

	// Local mode logs consumer failures instead of failing the publish.
	require.NoError(t, err)
	assert.Len(t, consumer.events, 1)
}

func TestInProcessEventBus_InvalidPayload(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"tasks.task.created"},
	}
	bus.RegisterConsumer(consumer)

	err := bus.Publish(context.Background(), "tasks.task.created", []byte("invalid json"))

	require.NoError(t, err)
	assert.Empty(t, consumer.events)
}

func TestInProcessEventBus_Close(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	require.NoError(t, bus.Close())
}

func TestInProcessEventBus_GetRegistry(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	assert.NotNil(t, bus.GetRegistry())
}
