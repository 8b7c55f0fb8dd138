package commands

import (
	"context"

	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// ArchiveTaskCommand contains the data needed to archive a task.
type ArchiveTaskCommand struct {
	TaskID uuid.UUID
}

// ArchiveTaskHandler handles the ArchiveTaskCommand.
type ArchiveTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
}

// NewArchiveTaskHandler creates a new ArchiveTaskHandler.
func NewArchiveTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher) *ArchiveTaskHandler {
	return &ArchiveTaskHandler{taskRepo: taskRepo, publisher: publisher}
}

// Handle executes the ArchiveTaskCommand.
func (h *ArchiveTaskHandler) Handle(ctx context.Context, cmd ArchiveTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}

	if err := t.Archive(); err != nil {
		return err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	return publishDomainEvents(ctx, h.publisher, t)
}
