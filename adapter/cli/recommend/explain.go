package recommend

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nextup-dev/nextup/adapter/cli"
	recommendApp "github.com/nextup-dev/nextup/internal/recommend/application"
	"github.com/nextup-dev/nextup/internal/tasks/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	explainMinutes int
	explainEnergy  int
	explainContext []string
	explainJSON    bool
)

// ExplainCmd explains the ranking of a specific task.
var ExplainCmd = &cobra.Command{
	Use:   "explain [id]",
	Short: "Explain why a task is ranked where it is",
	Long: `Build the full explanation artifact for one task, even when it is
not the top recommendation: reasoning steps, factor breakdown,
alternatives, confidence, and warnings.

Examples:
  nextup explain 3f8a21bc
  nextup explain 3f8a21bc --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Recommender == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		subjectID := resolveSubjectID(cmd, app, args[0])

		result, err := app.Recommender.Explain(cmd.Context(), subjectID, recommendApp.Request{
			AvailableMinutes: explainMinutes,
			EnergyRating:     explainEnergy,
			ContextTags:      explainContext,
		})
		if err != nil {
			return renderRecommendError(err)
		}

		if explainJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		renderExplanation(result.Explanation)

		// Show where the subject landed overall.
		for _, r := range result.Ranked {
			if r.ID == result.Explanation.Subject.ID {
				fmt.Printf("\nRanked #%d of %d with score %.1f\n", r.Rank, len(result.Ranked), r.Score)
				fmt.Println("Factors:")
				for _, f := range r.Factors {
					fmt.Printf("  %-12s raw %5.1f  x %.2f  = %5.1f\n", f.Name, f.Raw, f.Weight, f.Contribution)
				}
				break
			}
		}
		return nil
	},
}

// resolveSubjectID expands a unique id prefix among open tasks. Anything
// unresolvable passes through untouched so the engine reports it as an
// unknown subject with the available ids.
func resolveSubjectID(cmd *cobra.Command, app *cli.App, arg string) string {
	if _, err := uuid.Parse(arg); err == nil {
		return arg
	}
	if app.ListTasksHandler == nil {
		return arg
	}

	tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{})
	if err != nil {
		return arg
	}

	var match string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID.String(), arg) {
			if match != "" {
				return arg // Ambiguous, let the engine report it
			}
			match = t.ID.String()
		}
	}
	if match != "" {
		return match
	}
	return arg
}

func init() {
	ExplainCmd.Flags().IntVarP(&explainMinutes, "time", "t", 0, "available time in minutes")
	ExplainCmd.Flags().IntVarP(&explainEnergy, "energy", "e", 0, "current energy 1-10")
	ExplainCmd.Flags().StringSliceVar(&explainContext, "context", nil, "current context tags")
	ExplainCmd.Flags().BoolVar(&explainJSON, "json", false, "output JSON")
}
