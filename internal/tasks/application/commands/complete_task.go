package commands

import (
	"context"

	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/nextup-dev/nextup/pkg/observability"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID       uuid.UUID
	Satisfaction *int // 1-10, optional
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
	metrics   observability.Metrics
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, metrics observability.Metrics) *CompleteTaskHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CompleteTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}

	if err := t.Complete(cmd.Satisfaction); err != nil {
		return err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	if err := publishDomainEvents(ctx, h.publisher, t); err != nil {
		return err
	}

	h.metrics.Counter(observability.MetricTasksCompleted, 1)

	return nil
}
