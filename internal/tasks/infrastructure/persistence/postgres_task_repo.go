package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id             UUID PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT,
	project        TEXT,
	tags           TEXT[] NOT NULL DEFAULT '{}',
	status         TEXT NOT NULL,
	importance     INT NOT NULL,
	urgency        INT NOT NULL,
	alignment      INT NOT NULL,
	energy         TEXT NOT NULL,
	effort_minutes INT NOT NULL DEFAULT 0,
	deadline       TIMESTAMPTZ,
	satisfaction   INT,
	completed_at   TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_completed_at ON tasks(completed_at);
`

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository and
// ensures the schema exists.
func NewPostgresTaskRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresTaskRepository, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate tasks schema: %w", err)
	}
	return &PostgresTaskRepository{pool: pool}, nil
}

// Save persists a task, inserting or updating by ID.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	var description, project *string
	if t.Description() != "" {
		d := t.Description()
		description = &d
	}
	if t.Project() != "" {
		p := t.Project()
		project = &p
	}

	tags := t.Tags()
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO tasks (
			id, title, description, project, tags, status,
			importance, urgency, alignment, energy, effort_minutes,
			deadline, satisfaction, completed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			project = EXCLUDED.project,
			tags = EXCLUDED.tags,
			status = EXCLUDED.status,
			importance = EXCLUDED.importance,
			urgency = EXCLUDED.urgency,
			alignment = EXCLUDED.alignment,
			energy = EXCLUDED.energy,
			effort_minutes = EXCLUDED.effort_minutes,
			deadline = EXCLUDED.deadline,
			satisfaction = EXCLUDED.satisfaction,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		t.ID(),
		t.Title(),
		description,
		project,
		tags,
		t.Status().String(),
		t.Importance(),
		t.Urgency(),
		t.Alignment(),
		t.Energy().String(),
		t.EffortMinutes(),
		t.Deadline(),
		t.Satisfaction(),
		t.CompletedAt(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	return err
}

const postgresSelectColumns = `
	id, title, description, project, tags, status,
	importance, urgency, alignment, energy, effort_minutes,
	deadline, satisfaction, completed_at, created_at, updated_at
`

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+postgresSelectColumns+` FROM tasks WHERE id = $1`, id)

	t, err := r.scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindAll retrieves all tasks, newest first.
func (r *PostgresTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postgresSelectColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// FindOpen retrieves pending and in-progress tasks.
func (r *PostgresTaskRepository) FindOpen(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postgresSelectColumns+` FROM tasks
		 WHERE status IN ('pending', 'in_progress')
		 ORDER BY deadline NULLS LAST, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// FindCompletedSince retrieves tasks completed at or after the given time,
// newest first.
func (r *PostgresTaskRepository) FindCompletedSince(ctx context.Context, since time.Time) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postgresSelectColumns+` FROM tasks
		 WHERE status = 'completed' AND completed_at >= $1
		 ORDER BY completed_at DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// Delete removes a task from the database.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) scanTask(row pgx.Row) (*task.Task, error) {
	var (
		id                             uuid.UUID
		title, status, energy          string
		description, project           *string
		tags                           []string
		importance, urgency, alignment int
		effortMinutes                  int
		deadline, completedAt          *time.Time
		satisfaction                   *int
		createdAt, updatedAt           time.Time
	)

	err := row.Scan(
		&id, &title, &description, &project, &tags, &status,
		&importance, &urgency, &alignment, &energy, &effortMinutes,
		&deadline, &satisfaction, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedStatus, err := task.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}

	parsedEnergy, err := task.ParseEnergy(energy)
	if err != nil {
		return nil, fmt.Errorf("invalid energy in database: %w", err)
	}

	params := task.RehydrateParams{
		ID:            id,
		Title:         title,
		Tags:          tags,
		Status:        parsedStatus,
		Importance:    importance,
		Urgency:       urgency,
		Alignment:     alignment,
		Energy:        parsedEnergy,
		EffortMinutes: effortMinutes,
		Deadline:      deadline,
		Satisfaction:  satisfaction,
		CompletedAt:   completedAt,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	if description != nil {
		params.Description = *description
	}
	if project != nil {
		params.Project = *project
	}

	return task.Rehydrate(params), nil
}

func (r *PostgresTaskRepository) scanTasks(rows pgx.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
