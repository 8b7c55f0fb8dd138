package task

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nextup-dev/nextup/adapter/cli"
	"github.com/nextup-dev/nextup/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var (
	listStatus  string
	listProject string
	listTag     string
	listSort    string
	listLimit   int
	listJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering.

Examples:
  nextup task list                      # Open tasks by deadline
  nextup task list --status completed   # Finished tasks
  nextup task list --project compiler   # One project
  nextup task list --tag deep_work      # One tag
  nextup task list --json               # Machine-readable output`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			Status:  listStatus,
			Project: listProject,
			Tag:     listTag,
			SortBy:  listSort,
			Limit:   listLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if listJSON {
			return json.NewEncoder(os.Stdout).Encode(tasks)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDEADLINE\tEFFORT\tTAGS")
		for _, t := range tasks {
			deadline := "-"
			if t.Deadline != nil {
				deadline = t.Deadline.Local().Format("2006-01-02 15:04")
			}
			effort := "-"
			if t.EffortMinutes > 0 {
				effort = (time.Duration(t.EffortMinutes) * time.Minute).String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				shortID(t.ID.String()), t.Title, t.Status, deadline, effort,
				strings.Join(t.Tags, ","))
		}
		return w.Flush()
	},
}

// shortID keeps listings readable; full ids still work everywhere.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending, in_progress, completed, archived, all)")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "filter by project")
	listCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort by field (deadline, created_at)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "max tasks to show")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
}
