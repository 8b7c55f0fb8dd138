package task

import (
	"github.com/nextup-dev/nextup/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "tasks.task.created"
	RoutingKeyStarted   = "tasks.task.started"
	RoutingKeyUpdated   = "tasks.task.updated"
	RoutingKeyCompleted = "tasks.task.completed"
	RoutingKeyArchived  = "tasks.task.archived"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title   string   `json:"title"`
	Project string   `json:"project,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID uuid.UUID, title, project string, tags []string) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		Title:     title,
		Project:   project,
		Tags:      tags,
	}
}

// TaskStarted is emitted when a task is started (moved to in_progress).
type TaskStarted struct {
	domain.BaseEvent
}

// NewTaskStarted creates a TaskStarted event.
func NewTaskStarted(taskID uuid.UUID) TaskStarted {
	return TaskStarted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyStarted),
	}
}

// TaskUpdated is emitted when a task's attributes change.
type TaskUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"` // Names of fields that were updated
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(taskID uuid.UUID, fields []string) TaskUpdated {
	return TaskUpdated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUpdated),
		Fields:    fields,
	}
}

// TaskCompleted is emitted when a task is completed. Project, tags, and
// satisfaction ride along so momentum scoring can react without a lookup.
type TaskCompleted struct {
	domain.BaseEvent
	Project      string   `json:"project,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Satisfaction *int     `json:"satisfaction,omitempty"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID uuid.UUID, project string, tags []string, satisfaction *int) TaskCompleted {
	return TaskCompleted{
		BaseEvent:    domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
		Project:      project,
		Tags:         tags,
		Satisfaction: satisfaction,
	}
}

// TaskArchived is emitted when a task is archived.
type TaskArchived struct {
	domain.BaseEvent
}

// NewTaskArchived creates a TaskArchived event.
func NewTaskArchived(taskID uuid.UUID) TaskArchived {
	return TaskArchived{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyArchived),
	}
}
