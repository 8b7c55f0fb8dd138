package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
)

type fakeRepo struct {
	tasks   map[uuid.UUID]*task.Task
	saveErr error
	saved   []*task.Task
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: make(map[uuid.UUID]*task.Task)}
}

func (r *fakeRepo) Save(ctx context.Context, t *task.Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.tasks[t.ID()] = t
	r.saved = append(r.saved, t)
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, errors.New("task not found")
	}
	return t, nil
}

func (r *fakeRepo) FindAll(ctx context.Context) ([]*task.Task, error) { return nil, nil }

func (r *fakeRepo) FindOpen(ctx context.Context) ([]*task.Task, error) { return nil, nil }

func (r *fakeRepo) FindCompletedSince(ctx context.Context, since time.Time) ([]*task.Task, error) {
	return nil, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type capturingPublisher struct {
	published []eventbus.ConsumedEvent
	err       error
}

func (p *capturingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	var event eventbus.ConsumedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestCreateTaskHandler(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturingPublisher{}
	handler := NewCreateTaskHandler(repo, pub, nil)

	deadline := time.Date(2026, 4, 1, 17, 0, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), CreateTaskCommand{
		Title:         "write report",
		Description:   "quarterly numbers",
		Project:       "finance",
		Tags:          []string{"Writing", "deep_work"},
		Importance:    8,
		Urgency:       6,
		Alignment:     7,
		Energy:        "high",
		EffortMinutes: 90,
		Deadline:      &deadline,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	saved, err := repo.FindByID(context.Background(), result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "write report", saved.Title())
	assert.Equal(t, "finance", saved.Project())
	assert.Equal(t, []string{"writing", "deep_work"}, saved.Tags())
	assert.Equal(t, 8, saved.Importance())
	assert.Equal(t, task.EnergyHigh, saved.Energy())
	assert.Equal(t, 90, saved.EffortMinutes())
	require.NotNil(t, saved.Deadline())
	assert.True(t, saved.Deadline().Equal(deadline))

	require.Len(t, pub.published, 1)
	assert.Equal(t, task.RoutingKeyCreated, pub.published[0].RoutingKey)
	assert.Equal(t, result.TaskID, pub.published[0].AggregateID)
	// Events are drained after publishing.
	assert.Empty(t, saved.DomainEvents())
}

func TestCreateTaskHandler_Defaults(t *testing.T) {
	repo := newFakeRepo()
	handler := NewCreateTaskHandler(repo, &capturingPublisher{}, nil)

	result, err := handler.Handle(context.Background(), CreateTaskCommand{Title: "bare"})
	require.NoError(t, err)

	saved, err := repo.FindByID(context.Background(), result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, 5, saved.Importance())
	assert.Equal(t, 5, saved.Urgency())
	assert.Equal(t, task.EnergyMedium, saved.Energy())
	assert.Nil(t, saved.Deadline())
}

func TestCreateTaskHandler_Invalid(t *testing.T) {
	handler := NewCreateTaskHandler(newFakeRepo(), &capturingPublisher{}, nil)

	_, err := handler.Handle(context.Background(), CreateTaskCommand{Title: ""})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	_, err = handler.Handle(context.Background(), CreateTaskCommand{Title: "x", Importance: 11})
	assert.Error(t, err)

	_, err = handler.Handle(context.Background(), CreateTaskCommand{Title: "x", Energy: "turbo"})
	assert.ErrorIs(t, err, task.ErrInvalidEnergy)
}

func seedTask(t *testing.T, repo *fakeRepo) *task.Task {
	t.Helper()
	tk, err := task.NewTask("seeded")
	require.NoError(t, err)
	tk.ClearDomainEvents()
	repo.tasks[tk.ID()] = tk
	return tk
}

func TestStartTaskHandler(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturingPublisher{}
	tk := seedTask(t, repo)

	handler := NewStartTaskHandler(repo, pub)
	require.NoError(t, handler.Handle(context.Background(), StartTaskCommand{TaskID: tk.ID()}))

	assert.Equal(t, task.StatusInProgress, tk.Status())
	require.Len(t, pub.published, 1)
	assert.Equal(t, task.RoutingKeyStarted, pub.published[0].RoutingKey)
}

func TestStartTaskHandler_NotFound(t *testing.T) {
	handler := NewStartTaskHandler(newFakeRepo(), &capturingPublisher{})
	err := handler.Handle(context.Background(), StartTaskCommand{TaskID: uuid.New()})
	assert.Error(t, err)
}

func TestCompleteTaskHandler(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturingPublisher{}
	tk := seedTask(t, repo)

	nine := 9
	handler := NewCompleteTaskHandler(repo, pub, nil)
	require.NoError(t, handler.Handle(context.Background(), CompleteTaskCommand{
		TaskID:       tk.ID(),
		Satisfaction: &nine,
	}))

	assert.Equal(t, task.StatusCompleted, tk.Status())
	require.NotNil(t, tk.Satisfaction())
	assert.Equal(t, 9, *tk.Satisfaction())

	require.Len(t, pub.published, 1)
	assert.Equal(t, task.RoutingKeyCompleted, pub.published[0].RoutingKey)

	// Completing twice surfaces the domain error.
	err := handler.Handle(context.Background(), CompleteTaskCommand{TaskID: tk.ID()})
	assert.ErrorIs(t, err, task.ErrTaskAlreadyComplete)
}

func TestCompleteTaskHandler_InvalidSatisfaction(t *testing.T) {
	repo := newFakeRepo()
	tk := seedTask(t, repo)

	twelve := 12
	handler := NewCompleteTaskHandler(repo, &capturingPublisher{}, nil)
	err := handler.Handle(context.Background(), CompleteTaskCommand{
		TaskID:       tk.ID(),
		Satisfaction: &twelve,
	})

	assert.ErrorIs(t, err, task.ErrInvalidSatisfaction)
	// Nothing saved, nothing published.
	assert.Empty(t, repo.saved)
}

func TestArchiveTaskHandler(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturingPublisher{}
	tk := seedTask(t, repo)

	handler := NewArchiveTaskHandler(repo, pub)
	require.NoError(t, handler.Handle(context.Background(), ArchiveTaskCommand{TaskID: tk.ID()}))

	assert.Equal(t, task.StatusArchived, tk.Status())
	require.Len(t, pub.published, 1)
	assert.Equal(t, task.RoutingKeyArchived, pub.published[0].RoutingKey)
}

func TestHandlers_PublishFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturingPublisher{err: errors.New("broker down")}
	tk := seedTask(t, repo)

	handler := NewStartTaskHandler(repo, pub)
	err := handler.Handle(context.Background(), StartTaskCommand{TaskID: tk.ID()})

	assert.ErrorContains(t, err, "broker down")
}
