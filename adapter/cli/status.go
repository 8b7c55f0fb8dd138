package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the health of configured backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		health := app.Health.GetOverallHealth(cmd.Context())

		if statusJSON {
			return json.NewEncoder(os.Stdout).Encode(health)
		}

		fmt.Printf("overall: %s\n", health.Status)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COMPONENT\tSTATUS\tMESSAGE")
		for name, check := range health.Checks {
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, check.Status, check.Message)
		}
		return w.Flush()
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output JSON")
	rootCmd.AddCommand(statusCmd)
}
