package task

import (
	"fmt"

	"github.com/nextup-dev/nextup/adapter/cli"
	"github.com/nextup-dev/nextup/internal/tasks/application/commands"
	"github.com/spf13/cobra"
)

var doneSatisfaction int

var doneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Complete a task",
	Long: `Mark a task as completed, optionally recording how satisfying it
was (1-10). Satisfying completions feed the momentum factor of future
recommendations.

Examples:
  nextup task done 3f8a21bc
  nextup task done 3f8a21bc --satisfaction 9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		id, err := resolveTaskID(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		complete := commands.CompleteTaskCommand{TaskID: id}
		if cmd.Flags().Changed("satisfaction") {
			complete.Satisfaction = &doneSatisfaction
		}

		if err := app.CompleteTaskHandler.Handle(cmd.Context(), complete); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Printf("Task completed: %s\n", id)
		return nil
	},
}

func init() {
	doneCmd.Flags().IntVarP(&doneSatisfaction, "satisfaction", "s", 0, "satisfaction rating 1-10")
}
