// ABOUTME: CLI dashboard combining overview stats, score, data quality and charts.
// ABOUTME: Charts are rendered in the terminal with ntcharts.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/charts"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	dashDays   int
	dashWidth  int
	dashHeight int
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show the health dashboard",
	Long: `Show overall averages, the health score, data quality warnings, and
charts for weight, sleep, exercise, recent averages and active goals.

The charts cover the last --days days; the overview and data quality
checks always cover the full history.

EXAMPLES:

  healthdash dashboard
  healthdash dash --days 90 --width 80`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		all, err := repo.ListEntries(ctx, 0)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No entries yet. Log one with: healthdash log")
			return nil
		}

		window, err := repo.ListEntries(ctx, dashDays)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		active := models.GoalActive
		goals, err := repo.ListGoals(ctx, &active)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)

		ov := scoring.Overview(all)
		bold.Println("Overview")
		fmt.Printf("  %s %d", padRight("Entries", 16), ov.TotalEntries)
		if ov.DateRange != nil {
			fmt.Print(faint.Sprintf(" (%s to %s)", ov.DateRange.Start, ov.DateRange.End))
		}
		fmt.Println()
		fmt.Printf("  %s %.1f kg\n", padRight("Avg weight", 16), ov.AvgWeight)
		fmt.Printf("  %s %.0f bpm\n", padRight("Avg heart rate", 16), ov.AvgHeartRate)
		fmt.Printf("  %s %.1f h\n", padRight("Avg sleep", 16), ov.AvgSleepHours)
		fmt.Printf("  %s %.0f min\n", padRight("Avg exercise", 16), ov.AvgExerciseMinutes)
		fmt.Println()

		result := scoring.Score(all)
		fmt.Printf("%s %s\n", bold.Sprint("Health score"), scoreColor(result.Score).Sprintf("%d/100", result.Score))
		for _, f := range result.Factors {
			fmt.Printf("  %s %s\n", color.GreenString("✓"), f)
		}
		fmt.Println()

		quality := scoring.DataQuality(all)
		bold.Println("Data quality")
		if quality.OK() {
			fmt.Printf("  %s no issues\n", color.GreenString("✓"))
		}
		for _, issue := range quality.Issues {
			fmt.Printf("  %s %s\n", color.YellowString("✗"), issue)
		}
		for _, metric := range scoring.CompletenessMetrics {
			fmt.Printf("  %s %5.1f%% logged\n", padRight(completenessLabel(metric), 16), quality.Completeness[metric])
		}
		fmt.Println()

		series := charts.BuildSeries(window)
		for _, view := range []string{
			charts.Weight(series, dashWidth, dashHeight),
			charts.Sleep(series, dashWidth, dashHeight),
			charts.Exercise(series, dashWidth, dashHeight),
			charts.Summary(series, dashWidth, dashHeight),
			charts.Goals(goals, dashWidth, dashHeight),
		} {
			fmt.Println(view)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().IntVarP(&dashDays, "days", "d", 30, "days of entries to chart (0 for all)")
	dashboardCmd.Flags().IntVar(&dashWidth, "width", 60, "chart width in columns")
	dashboardCmd.Flags().IntVar(&dashHeight, "height", 8, "chart height in rows")
	rootCmd.AddCommand(dashboardCmd)
}

func completenessLabel(metric string) string {
	switch metric {
	case "bp_systolic":
		return "Blood pressure"
	case "heart_rate":
		return "Heart rate"
	case "sleep_hours":
		return "Sleep"
	case "exercise_minutes":
		return "Exercise"
	}
	return "Weight"
}
