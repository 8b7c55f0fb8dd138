// Package persistence provides SQLite and PostgreSQL implementations of
// the task repository. SQLite backs local single-user mode; PostgreSQL
// backs server mode.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT,
	project        TEXT,
	tags           TEXT NOT NULL DEFAULT '[]',
	status         TEXT NOT NULL,
	importance     INTEGER NOT NULL,
	urgency        INTEGER NOT NULL,
	alignment      INTEGER NOT NULL,
	energy         TEXT NOT NULL,
	effort_minutes INTEGER NOT NULL DEFAULT 0,
	deadline       TEXT,
	satisfaction   INTEGER,
	completed_at   TEXT,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_completed_at ON tasks(completed_at);
`

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	dbConn *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository and ensures
// the schema exists.
func NewSQLiteTaskRepository(dbConn *sql.DB) (*SQLiteTaskRepository, error) {
	if _, err := dbConn.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate tasks schema: %w", err)
	}
	return &SQLiteTaskRepository{dbConn: dbConn}, nil
}

// Save persists a task, inserting or updating by ID.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	tags, err := json.Marshal(t.Tags())
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var deadline, completedAt sql.NullString
	if t.Deadline() != nil {
		deadline = sql.NullString{String: t.Deadline().UTC().Format(time.RFC3339), Valid: true}
	}
	if t.CompletedAt() != nil {
		completedAt = sql.NullString{String: t.CompletedAt().UTC().Format(time.RFC3339), Valid: true}
	}

	var satisfaction sql.NullInt64
	if t.Satisfaction() != nil {
		satisfaction = sql.NullInt64{Int64: int64(*t.Satisfaction()), Valid: true}
	}

	var description, project sql.NullString
	if t.Description() != "" {
		description = sql.NullString{String: t.Description(), Valid: true}
	}
	if t.Project() != "" {
		project = sql.NullString{String: t.Project(), Valid: true}
	}

	query := `
		INSERT INTO tasks (
			id, title, description, project, tags, status,
			importance, urgency, alignment, energy, effort_minutes,
			deadline, satisfaction, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			project = excluded.project,
			tags = excluded.tags,
			status = excluded.status,
			importance = excluded.importance,
			urgency = excluded.urgency,
			alignment = excluded.alignment,
			energy = excluded.energy,
			effort_minutes = excluded.effort_minutes,
			deadline = excluded.deadline,
			satisfaction = excluded.satisfaction,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`

	_, err = r.dbConn.ExecContext(ctx, query,
		t.ID().String(),
		t.Title(),
		description,
		project,
		string(tags),
		t.Status().String(),
		t.Importance(),
		t.Urgency(),
		t.Alignment(),
		t.Energy().String(),
		t.EffortMinutes(),
		deadline,
		satisfaction,
		completedAt,
		t.CreatedAt().UTC().Format(time.RFC3339),
		t.UpdatedAt().UTC().Format(time.RFC3339),
	)
	return err
}

const sqliteSelectColumns = `
	id, title, description, project, tags, status,
	importance, urgency, alignment, energy, effort_minutes,
	deadline, satisfaction, completed_at, created_at, updated_at
`

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.dbConn.QueryRowContext(ctx,
		`SELECT `+sqliteSelectColumns+` FROM tasks WHERE id = ?`, id.String())

	t, err := r.scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindAll retrieves all tasks, newest first.
func (r *SQLiteTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.dbConn.QueryContext(ctx,
		`SELECT `+sqliteSelectColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// FindOpen retrieves pending and in-progress tasks.
func (r *SQLiteTaskRepository) FindOpen(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.dbConn.QueryContext(ctx,
		`SELECT `+sqliteSelectColumns+` FROM tasks
		 WHERE status IN ('pending', 'in_progress')
		 ORDER BY deadline IS NULL, deadline, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// FindCompletedSince retrieves tasks completed at or after the given time,
// newest first.
func (r *SQLiteTaskRepository) FindCompletedSince(ctx context.Context, since time.Time) ([]*task.Task, error) {
	rows, err := r.dbConn.QueryContext(ctx,
		`SELECT `+sqliteSelectColumns+` FROM tasks
		 WHERE status = 'completed' AND completed_at >= ?
		 ORDER BY completed_at DESC`,
		since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// Delete removes a task from the database.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.dbConn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *SQLiteTaskRepository) scanTask(row scannable) (*task.Task, error) {
	var (
		id, title, tagsJSON, status, energy  string
		description, project                 sql.NullString
		deadline, completedAt                sql.NullString
		satisfaction                         sql.NullInt64
		importance, urgency, alignment       int
		effortMinutes                        int
		createdAt, updatedAt                 string
	)

	err := row.Scan(
		&id, &title, &description, &project, &tagsJSON, &status,
		&importance, &urgency, &alignment, &energy, &effortMinutes,
		&deadline, &satisfaction, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return nil, fmt.Errorf("invalid tags in database: %w", err)
	}

	parsedStatus, err := task.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}

	parsedEnergy, err := task.ParseEnergy(energy)
	if err != nil {
		return nil, fmt.Errorf("invalid energy in database: %w", err)
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	params := task.RehydrateParams{
		ID:            taskID,
		Title:         title,
		Tags:          tags,
		Status:        parsedStatus,
		Importance:    importance,
		Urgency:       urgency,
		Alignment:     alignment,
		Energy:        parsedEnergy,
		EffortMinutes: effortMinutes,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}

	if description.Valid {
		params.Description = description.String
	}
	if project.Valid {
		params.Project = project.String
	}
	if deadline.Valid {
		d, err := time.Parse(time.RFC3339, deadline.String)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline: %w", err)
		}
		params.Deadline = &d
	}
	if completedAt.Valid {
		c, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at: %w", err)
		}
		params.CompletedAt = &c
	}
	if satisfaction.Valid {
		s := int(satisfaction.Int64)
		params.Satisfaction = &s
	}

	return task.Rehydrate(params), nil
}

func (r *SQLiteTaskRepository) scanTasks(rows *sql.Rows) ([]*task.Task, error) {
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
