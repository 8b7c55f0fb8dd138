package task

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nextup-dev/nextup/adapter/cli"
	"github.com/nextup-dev/nextup/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a task in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		id, err := resolveTaskID(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: id})
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}

		if showJSON {
			return json.NewEncoder(os.Stdout).Encode(t)
		}

		fmt.Printf("%s\n", t.Title)
		fmt.Printf("  id:          %s\n", t.ID)
		fmt.Printf("  status:      %s\n", t.Status)
		if t.Description != "" {
			fmt.Printf("  description: %s\n", t.Description)
		}
		if t.Project != "" {
			fmt.Printf("  project:     %s\n", t.Project)
		}
		if len(t.Tags) > 0 {
			fmt.Printf("  tags:        %s\n", strings.Join(t.Tags, ", "))
		}
		fmt.Printf("  importance:  %d/10\n", t.Importance)
		fmt.Printf("  urgency:     %d/10\n", t.Urgency)
		fmt.Printf("  alignment:   %d/10\n", t.Alignment)
		fmt.Printf("  energy:      %s\n", t.Energy)
		if t.EffortMinutes > 0 {
			fmt.Printf("  effort:      %s\n", time.Duration(t.EffortMinutes)*time.Minute)
		}
		if t.Deadline != nil {
			fmt.Printf("  deadline:    %s\n", t.Deadline.Local().Format("2006-01-02 15:04"))
		}
		if t.Satisfaction != nil {
			fmt.Printf("  satisfaction: %d/10\n", *t.Satisfaction)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output JSON")
}
