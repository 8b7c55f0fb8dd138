package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/nextup-dev/nextup/adapter/cli"
	"github.com/nextup-dev/nextup/internal/tasks/application/queries"
	"github.com/google/uuid"
)

// resolveTaskID accepts a full UUID or a unique id prefix from a listing.
func resolveTaskID(ctx context.Context, app *cli.App, arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}

	tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{Status: "all"})
	if err != nil {
		return uuid.Nil, err
	}

	var matches []uuid.UUID
	for _, t := range tasks {
		if strings.HasPrefix(t.ID.String(), arg) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return uuid.Nil, fmt.Errorf("no task matches id %q", arg)
	default:
		return uuid.Nil, fmt.Errorf("id %q is ambiguous, %d tasks match", arg, len(matches))
	}
}
