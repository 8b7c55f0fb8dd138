package task

import (
	"fmt"
	"time"

	"github.com/nextup-dev/nextup/adapter/cli"
	"github.com/nextup-dev/nextup/internal/tasks/application/commands"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addProject     string
	addTags        []string
	addImportance  int
	addUrgency     int
	addAlignment   int
	addEnergy      string
	addEffort      int
	addDeadline    string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with the signals the recommendation engine reads.

Examples:
  nextup task add "Write quarterly report"
  nextup task add "Review PR" --effort 30 --energy high --deadline 2026-09-01
  nextup task add "Refactor parser" -i 8 -a 9 --project compiler --tags deep_work,go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		create := commands.CreateTaskCommand{
			Title:         args[0],
			Description:   addDescription,
			Project:       addProject,
			Tags:          addTags,
			Importance:    addImportance,
			Urgency:       addUrgency,
			Alignment:     addAlignment,
			Energy:        addEnergy,
			EffortMinutes: addEffort,
		}

		if addDeadline != "" {
			parsed, err := parseDeadline(addDeadline)
			if err != nil {
				return err
			}
			create.Deadline = &parsed
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), create)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Printf("Task added: %s\n", result.TaskID)
		return nil
	},
}

// parseDeadline accepts a date or a full RFC 3339 timestamp. A bare date
// means end of that day, local time.
func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline (use YYYY-MM-DD or RFC 3339): %s", s)
	}
	return t.Add(24*time.Hour - time.Second), nil
}

func init() {
	addCmd.Flags().StringVar(&addDescription, "description", "", "task description")
	addCmd.Flags().StringVarP(&addProject, "project", "p", "", "project the task belongs to")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "context tags, comma separated")
	addCmd.Flags().IntVarP(&addImportance, "importance", "i", 0, "importance 1-10")
	addCmd.Flags().IntVarP(&addUrgency, "urgency", "u", 0, "urgency 1-10")
	addCmd.Flags().IntVarP(&addAlignment, "alignment", "a", 0, "goal alignment 1-10")
	addCmd.Flags().StringVar(&addEnergy, "energy", "", "required energy (low, medium, high, peak)")
	addCmd.Flags().IntVarP(&addEffort, "effort", "e", 0, "estimated effort in minutes")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "deadline (YYYY-MM-DD or RFC 3339)")
}
