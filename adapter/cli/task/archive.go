package task

import (
	"fmt"

	"github.com/nextup-dev/nextup/adapter/cli"
	"github.com/nextup-dev/nextup/internal/tasks/application/commands"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [id]",
	Short: "Archive a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ArchiveTaskHandler == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		id, err := resolveTaskID(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		if err := app.ArchiveTaskHandler.Handle(cmd.Context(), commands.ArchiveTaskCommand{TaskID: id}); err != nil {
			return fmt.Errorf("failed to archive task: %w", err)
		}

		fmt.Printf("Task archived: %s\n", id)
		return nil
	},
}
