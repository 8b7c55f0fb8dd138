package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context) ([]*Task, error)
	// FindOpen returns pending and in-progress tasks, the candidate pool
	// for recommendations.
	FindOpen(ctx context.Context) ([]*Task, error)
	// FindCompletedSince returns tasks completed at or after the given
	// time, newest first. Used for momentum scoring.
	FindCompletedSince(ctx context.Context, since time.Time) ([]*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
