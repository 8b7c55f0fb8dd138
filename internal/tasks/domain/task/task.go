// Package task holds the Task aggregate: the unit of work the
// recommendation engine scores and ranks.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nextup-dev/nextup/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrTaskArchived        = errors.New("task is archived")
	ErrInvalidSatisfaction = errors.New("satisfaction rating must be between 1 and 10")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "archived":
		return StatusArchived, nil
	default:
		return 0, fmt.Errorf("unknown task status %q", s)
	}
}

// Task represents a unit of work together with the signals the
// recommendation engine reads: importance, urgency, strategic alignment,
// required energy, tags, project, effort estimate, and deadline.
type Task struct {
	domain.BaseAggregateRoot
	title         string
	description   string
	project       string
	tags          []string
	status        Status
	importance    int // 1-10
	urgency       int // 1-10
	alignment     int // 1-10
	energy        Energy
	effortMinutes int
	deadline      *time.Time
	satisfaction  *int // 1-10, set on completion
	completedAt   *time.Time
}

// NewTask creates a new task with the given title. Ratings default to the
// scale midpoint and energy to medium until set explicitly.
func NewTask(title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		title:             title,
		status:            StatusPending,
		importance:        5,
		urgency:           5,
		alignment:         5,
		energy:            EnergyMedium,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title, t.project, t.tags))

	return t, nil
}

// Rehydrate recreates a task from persisted state without raising events.
type RehydrateParams struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Project       string
	Tags          []string
	Status        Status
	Importance    int
	Urgency       int
	Alignment     int
	Energy        Energy
	EffortMinutes int
	Deadline      *time.Time
	Satisfaction  *int
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Rehydrate reconstructs a Task from storage.
func Rehydrate(p RehydrateParams) *Task {
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(p.ID, p.CreatedAt, p.UpdatedAt),
		),
		title:         p.Title,
		description:   p.Description,
		project:       p.Project,
		tags:          p.Tags,
		status:        p.Status,
		importance:    p.Importance,
		urgency:       p.Urgency,
		alignment:     p.Alignment,
		energy:        p.Energy,
		effortMinutes: p.EffortMinutes,
		deadline:      p.Deadline,
		satisfaction:  p.Satisfaction,
		completedAt:   p.CompletedAt,
	}
}

// Getters

func (t *Task) Title() string           { return t.title }
func (t *Task) Description() string     { return t.description }
func (t *Task) Project() string         { return t.project }
func (t *Task) Tags() []string          { return t.tags }
func (t *Task) Status() Status          { return t.status }
func (t *Task) Importance() int         { return t.importance }
func (t *Task) Urgency() int            { return t.urgency }
func (t *Task) Alignment() int          { return t.alignment }
func (t *Task) Energy() Energy          { return t.energy }
func (t *Task) EffortMinutes() int      { return t.effortMinutes }
func (t *Task) Deadline() *time.Time    { return t.deadline }
func (t *Task) Satisfaction() *int      { return t.satisfaction }
func (t *Task) CompletedAt() *time.Time { return t.completedAt }
func (t *Task) IsCompleted() bool       { return t.status == StatusCompleted }
func (t *Task) IsArchived() bool        { return t.status == StatusArchived }

// IsOpen reports whether the task is eligible for recommendation.
func (t *Task) IsOpen() bool {
	return t.status == StatusPending || t.status == StatusInProgress
}

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.description = strings.TrimSpace(description)
	t.Touch()
	return nil
}

// SetProject assigns the task to a project.
func (t *Task) SetProject(project string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.project = strings.TrimSpace(project)
	t.Touch()
	return nil
}

// SetTags replaces the task's tags. Tags are lowercased and deduplicated.
func (t *Task) SetTags(tags []string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}
	t.tags = cleaned
	t.Touch()
	return nil
}

func validRating(v int) error {
	if v < 1 || v > 10 {
		return fmt.Errorf("rating must be between 1 and 10, got %d", v)
	}
	return nil
}

// SetImportance updates the importance rating (1-10).
func (t *Task) SetImportance(v int) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if err := validRating(v); err != nil {
		return err
	}
	t.importance = v
	t.Touch()
	return nil
}

// SetUrgency updates the self-assessed urgency rating (1-10).
func (t *Task) SetUrgency(v int) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if err := validRating(v); err != nil {
		return err
	}
	t.urgency = v
	t.Touch()
	return nil
}

// SetAlignment updates the strategic alignment rating (1-10).
func (t *Task) SetAlignment(v int) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if err := validRating(v); err != nil {
		return err
	}
	t.alignment = v
	t.Touch()
	return nil
}

// SetEnergy updates the required energy level.
func (t *Task) SetEnergy(e Energy) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.energy = e
	t.Touch()
	return nil
}

// SetEffortMinutes updates the estimated effort in minutes.
func (t *Task) SetEffortMinutes(minutes int) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if minutes < 0 {
		return fmt.Errorf("effort minutes cannot be negative, got %d", minutes)
	}
	t.effortMinutes = minutes
	t.Touch()
	return nil
}

// SetDeadline updates the deadline. Nil clears it.
func (t *Task) SetDeadline(deadline *time.Time) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.deadline = deadline
	t.Touch()
	return nil
}

// Start marks the task as in progress.
func (t *Task) Start() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if t.status == StatusInProgress {
		return nil // Idempotent
	}
	t.status = StatusInProgress
	t.Touch()
	t.AddDomainEvent(NewTaskStarted(t.ID()))
	return nil
}

// Complete marks the task as completed, optionally recording a 1-10
// satisfaction rating used as a momentum signal for later recommendations.
func (t *Task) Complete(satisfaction *int) error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if satisfaction != nil {
		if *satisfaction < 1 || *satisfaction > 10 {
			return ErrInvalidSatisfaction
		}
	}

	now := time.Now().UTC()
	t.status = StatusCompleted
	t.completedAt = &now
	t.satisfaction = satisfaction
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.project, t.tags, satisfaction))

	return nil
}

// Archive marks the task as archived.
func (t *Task) Archive() error {
	if t.IsArchived() {
		return nil // Idempotent
	}

	t.status = StatusArchived
	t.Touch()

	t.AddDomainEvent(NewTaskArchived(t.ID()))

	return nil
}
