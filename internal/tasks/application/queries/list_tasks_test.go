package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
)

type fakeRepo struct {
	open    []*task.Task
	all     []*task.Task
	findErr error
}

func (r *fakeRepo) Save(ctx context.Context, t *task.Task) error { return nil }

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	for _, t := range r.all {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, errors.New("task not found")
}

func (r *fakeRepo) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.all, r.findErr
}

func (r *fakeRepo) FindOpen(ctx context.Context) ([]*task.Task, error) {
	return r.open, r.findErr
}

func (r *fakeRepo) FindCompletedSince(ctx context.Context, since time.Time) ([]*task.Task, error) {
	return nil, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func buildTask(t *testing.T, title, project string, tags []string, deadline *time.Time) *task.Task {
	t.Helper()
	tk, err := task.NewTask(title)
	require.NoError(t, err)
	if project != "" {
		require.NoError(t, tk.SetProject(project))
	}
	if len(tags) > 0 {
		require.NoError(t, tk.SetTags(tags))
	}
	if deadline != nil {
		require.NoError(t, tk.SetDeadline(deadline))
	}
	return tk
}

func TestListTasksHandler_DefaultsToOpen(t *testing.T) {
	open := buildTask(t, "open one", "", nil, nil)
	repo := &fakeRepo{open: []*task.Task{open}}
	handler := NewListTasksHandler(repo)

	dtos, err := handler.Handle(context.Background(), ListTasksQuery{})
	require.NoError(t, err)

	require.Len(t, dtos, 1)
	assert.Equal(t, "open one", dtos[0].Title)
	assert.Equal(t, "pending", dtos[0].Status)
}

func TestListTasksHandler_StatusFilter(t *testing.T) {
	done := buildTask(t, "done", "", nil, nil)
	require.NoError(t, done.Complete(nil))
	pending := buildTask(t, "pending", "", nil, nil)
	repo := &fakeRepo{all: []*task.Task{done, pending}}
	handler := NewListTasksHandler(repo)

	dtos, err := handler.Handle(context.Background(), ListTasksQuery{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "done", dtos[0].Title)

	dtos, err = handler.Handle(context.Background(), ListTasksQuery{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, dtos, 2)
}

func TestListTasksHandler_ProjectAndTagFilters(t *testing.T) {
	a := buildTask(t, "a", "book", []string{"writing"}, nil)
	b := buildTask(t, "b", "ops", []string{"infra"}, nil)
	repo := &fakeRepo{open: []*task.Task{a, b}}
	handler := NewListTasksHandler(repo)

	dtos, err := handler.Handle(context.Background(), ListTasksQuery{Project: "book"})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "a", dtos[0].Title)

	dtos, err = handler.Handle(context.Background(), ListTasksQuery{Tag: "infra"})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "b", dtos[0].Title)
}

func TestListTasksHandler_DeadlineSortNilsLast(t *testing.T) {
	later := time.Now().Add(72 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)

	noDeadline := buildTask(t, "no deadline", "", nil, nil)
	dueLater := buildTask(t, "due later", "", nil, &later)
	dueSoon := buildTask(t, "due soon", "", nil, &sooner)
	repo := &fakeRepo{open: []*task.Task{noDeadline, dueLater, dueSoon}}
	handler := NewListTasksHandler(repo)

	dtos, err := handler.Handle(context.Background(), ListTasksQuery{})
	require.NoError(t, err)

	require.Len(t, dtos, 3)
	assert.Equal(t, "due soon", dtos[0].Title)
	assert.Equal(t, "due later", dtos[1].Title)
	assert.Equal(t, "no deadline", dtos[2].Title)
}

func TestListTasksHandler_Limit(t *testing.T) {
	repo := &fakeRepo{open: []*task.Task{
		buildTask(t, "one", "", nil, nil),
		buildTask(t, "two", "", nil, nil),
		buildTask(t, "three", "", nil, nil),
	}}
	handler := NewListTasksHandler(repo)

	dtos, err := handler.Handle(context.Background(), ListTasksQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, dtos, 2)
}

func TestListTasksHandler_RepoError(t *testing.T) {
	repo := &fakeRepo{findErr: errors.New("db down")}
	handler := NewListTasksHandler(repo)

	_, err := handler.Handle(context.Background(), ListTasksQuery{})
	assert.ErrorContains(t, err, "db down")
}

func TestGetTaskHandler(t *testing.T) {
	tk := buildTask(t, "target", "book", []string{"writing"}, nil)
	repo := &fakeRepo{all: []*task.Task{tk}}
	handler := NewGetTaskHandler(repo)

	dto, err := handler.Handle(context.Background(), GetTaskQuery{TaskID: tk.ID()})
	require.NoError(t, err)

	assert.Equal(t, tk.ID(), dto.ID)
	assert.Equal(t, "target", dto.Title)
	assert.Equal(t, "book", dto.Project)
	assert.Equal(t, []string{"writing"}, dto.Tags)
	assert.Equal(t, "medium", dto.Energy)
}

func TestGetTaskHandler_NotFound(t *testing.T) {
	handler := NewGetTaskHandler(&fakeRepo{})

	_, err := handler.Handle(context.Background(), GetTaskQuery{TaskID: uuid.New()})
	assert.Error(t, err)
}
