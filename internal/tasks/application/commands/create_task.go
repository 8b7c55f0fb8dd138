package commands

import (
	"context"
	"time"

	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/nextup-dev/nextup/pkg/observability"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title         string
	Description   string
	Project       string
	Tags          []string
	Importance    int // 1-10, 0 means use default
	Urgency       int
	Alignment     int
	Energy        string // low, medium, high, peak; empty means medium
	EffortMinutes int
	Deadline      *time.Time
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
	metrics   observability.Metrics
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, metrics observability.Metrics) *CreateTaskHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t, err := task.NewTask(cmd.Title)
	if err != nil {
		return nil, err
	}

	if cmd.Description != "" {
		if err := t.SetDescription(cmd.Description); err != nil {
			return nil, err
		}
	}
	if cmd.Project != "" {
		if err := t.SetProject(cmd.Project); err != nil {
			return nil, err
		}
	}
	if len(cmd.Tags) > 0 {
		if err := t.SetTags(cmd.Tags); err != nil {
			return nil, err
		}
	}
	if cmd.Importance > 0 {
		if err := t.SetImportance(cmd.Importance); err != nil {
			return nil, err
		}
	}
	if cmd.Urgency > 0 {
		if err := t.SetUrgency(cmd.Urgency); err != nil {
			return nil, err
		}
	}
	if cmd.Alignment > 0 {
		if err := t.SetAlignment(cmd.Alignment); err != nil {
			return nil, err
		}
	}
	if cmd.Energy != "" {
		energy, err := task.ParseEnergy(cmd.Energy)
		if err != nil {
			return nil, err
		}
		if err := t.SetEnergy(energy); err != nil {
			return nil, err
		}
	}
	if cmd.EffortMinutes > 0 {
		if err := t.SetEffortMinutes(cmd.EffortMinutes); err != nil {
			return nil, err
		}
	}
	if cmd.Deadline != nil {
		if err := t.SetDeadline(cmd.Deadline); err != nil {
			return nil, err
		}
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := publishDomainEvents(ctx, h.publisher, t); err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricTasksCreated, 1)

	return &CreateTaskResult{TaskID: t.ID()}, nil
}
