// Package queries contains the read-side handlers for the tasks context.
package queries

import (
	"context"
	"sort"
	"time"

	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Project       string     `json:"project,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Status        string     `json:"status"`
	Importance    int        `json:"importance"`
	Urgency       int        `json:"urgency"`
	Alignment     int        `json:"alignment"`
	Energy        string     `json:"energy"`
	EffortMinutes int        `json:"effort_minutes"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Satisfaction  *int       `json:"satisfaction,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	Status  string // "all", "pending", "in_progress", "completed", "archived"; empty means open tasks
	Project string // Filter by project
	Tag     string // Filter by tag
	SortBy  string // "deadline", "created_at"; empty means deadline
	Limit   int    // Max number of tasks to return (0 = no limit)
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var tasks []*task.Task
	var err error

	if query.Status == "" {
		tasks, err = h.taskRepo.FindOpen(ctx)
	} else {
		tasks, err = h.taskRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if query.Status != "" && query.Status != "all" {
		tasks = filterByStatus(tasks, query.Status)
	}
	if query.Project != "" {
		tasks = filterByProject(tasks, query.Project)
	}
	if query.Tag != "" {
		tasks = filterByTag(tasks, query.Tag)
	}

	sortTasks(tasks, query.SortBy)

	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}

	return toTaskDTOs(tasks), nil
}

func filterByStatus(tasks []*task.Task, status string) []*task.Task {
	var filtered []*task.Task
	for _, t := range tasks {
		if t.Status().String() == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func filterByProject(tasks []*task.Task, project string) []*task.Task {
	var filtered []*task.Task
	for _, t := range tasks {
		if t.Project() == project {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func filterByTag(tasks []*task.Task, tag string) []*task.Task {
	var filtered []*task.Task
	for _, t := range tasks {
		for _, have := range t.Tags() {
			if have == tag {
				filtered = append(filtered, t)
				break
			}
		}
	}
	return filtered
}

func sortTasks(tasks []*task.Task, sortBy string) {
	switch sortBy {
	case "created_at":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt().After(tasks[j].CreatedAt())
		})
	default: // deadline, nils last
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].Deadline(), tasks[j].Deadline()
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	}
}

// ToTaskDTO converts a task aggregate to its transfer representation.
func ToTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID(),
		Title:         t.Title(),
		Description:   t.Description(),
		Project:       t.Project(),
		Tags:          t.Tags(),
		Status:        t.Status().String(),
		Importance:    t.Importance(),
		Urgency:       t.Urgency(),
		Alignment:     t.Alignment(),
		Energy:        t.Energy().String(),
		EffortMinutes: t.EffortMinutes(),
		Deadline:      t.Deadline(),
		Satisfaction:  t.Satisfaction(),
		CompletedAt:   t.CompletedAt(),
		CreatedAt:     t.CreatedAt(),
	}
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
