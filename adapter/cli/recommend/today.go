// Package recommend holds the today and explain commands, the CLI
// surface of the recommendation engine.
package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nextup-dev/nextup/adapter/cli"
	recommendApp "github.com/nextup-dev/nextup/internal/recommend/application"
	"github.com/nextup-dev/nextup/internal/recommend/domain"
	"github.com/spf13/cobra"
)

var (
	todayCount   int
	todayMinutes int
	todayEnergy  int
	todayContext []string
	todayJSON    bool
)

// TodayCmd recommends what to work on next.
var TodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Recommend what to work on next",
	Long: `Rank open tasks with the weighted priority engine and explain the
top recommendation.

Examples:
  nextup today
  nextup today --count 3
  nextup today --time 45 --energy 8 --context deep_work
  nextup today --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Recommender == nil {
			return fmt.Errorf("application not initialized - storage required")
		}

		count := todayCount
		if count == 0 && app.Config != nil {
			count = app.Config.DefaultTopN
		}

		result, err := app.Recommender.Recommend(cmd.Context(), recommendApp.Request{
			AvailableMinutes: todayMinutes,
			EnergyRating:     todayEnergy,
			ContextTags:      todayContext,
			TopN:             count,
		})
		if err != nil {
			return renderRecommendError(err)
		}

		if todayJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		renderResult(result, true)
		return nil
	},
}

func init() {
	TodayCmd.Flags().IntVarP(&todayCount, "count", "n", 0, "number of recommendations")
	TodayCmd.Flags().IntVarP(&todayMinutes, "time", "t", 0, "available time in minutes")
	TodayCmd.Flags().IntVarP(&todayEnergy, "energy", "e", 0, "current energy 1-10")
	TodayCmd.Flags().StringSliceVar(&todayContext, "context", nil, "current context tags")
	TodayCmd.Flags().BoolVar(&todayJSON, "json", false, "output JSON")
}

// renderRecommendError translates typed engine errors into guidance
// instead of raw failures.
func renderRecommendError(err error) error {
	var timeout *domain.TimeoutError
	if errors.As(err, &timeout) {
		return fmt.Errorf("recommendation took too long (%s budget); try again or raise NEXTUP_RECOMMEND_TIMEOUT", timeout.Budget)
	}

	var notFound *domain.SubjectNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s\nRun \"nextup task list\" to see candidate ids", notFound.Error())
	}

	return err
}

// renderResult prints the ranked list and, when withExplanation is set,
// the reasoning for the subject.
func renderResult(result *domain.Result, withExplanation bool) {
	if len(result.Ranked) == 0 {
		fmt.Println("Nothing to recommend: no open tasks.")
		fmt.Println("Add one with \"nextup task add\".")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tID\tTITLE")
	for _, r := range result.Ranked {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\n", r.Rank, r.Score, shortID(r.ID), r.Title)
	}
	_ = w.Flush()

	if !withExplanation {
		return
	}

	fmt.Println()
	renderExplanation(result.Explanation)
}

func renderExplanation(ex domain.Explanation) {
	rec := ex.PrimaryRecommendation
	if rec.Action != "" {
		fmt.Printf("Recommendation: %s\n", rec.Action)
		fmt.Printf("  %s\n", rec.Rationale)
	}
	fmt.Printf("Confidence: %.2f (%s)\n", ex.Confidence.Value, ex.Confidence.Bucket)

	if len(ex.ReasoningSteps) > 0 {
		fmt.Println("\nReasoning:")
		for _, step := range ex.ReasoningSteps {
			fmt.Printf("  %d. %s\n", step.Step, step.Description)
		}
	}

	if len(ex.Alternatives) > 0 {
		fmt.Println("\nAlternatives:")
		for _, alt := range ex.Alternatives {
			fmt.Printf("  - %s (%s): %s\n", alt.Title, shortID(alt.ID), alt.Tradeoff)
		}
	}

	for _, warning := range ex.Warnings {
		fmt.Printf("\nWarning: %s\n", warning)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
