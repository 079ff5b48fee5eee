// ABOUTME: CLI commands for language-model insights.
// ABOUTME: Health assessment, trend analysis, goal suggestions and the insight log.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	insightDays int
	insightJSON bool
)

var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"ai"},
	Short:   "Generate insights with a language model",
	Long: `Generate narrative insights from recent entries.

Requires ANTHROPIC_API_KEY, or HEALTHDASH_AI_PROVIDER=gemini with
GEMINI_API_KEY. Without a key each command prints a short notice instead.
Every generated result is recorded in the insight log.`,
}

var insightsHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Overall health assessment and recommendations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !insightsReady() {
			return nil
		}
		res, err := insightSvc.GenerateHealthInsights(cmd.Context(), insightDays)
		if err != nil {
			return fmt.Errorf("failed to generate insights: %w", err)
		}
		if insightJSON {
			return printJSON(res)
		}

		color.New(color.Bold).Println("Overall health")
		fmt.Printf("  %s\n\n", res.OverallHealth)
		printSection("Positive aspects", res.PositiveAspects)
		printSection("Trends", res.Trends)
		printSection("Risk factors", res.RiskFactors)
		printSection("Areas for improvement", res.AreasForImprovement)
		printSection("Recommendations", res.Recommendations)
		return nil
	},
}

var insightsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Analyze metric trends and cross-metric patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !insightsReady() {
			return nil
		}
		res, err := insightSvc.AnalyzeTrends(cmd.Context(), insightDays)
		if err != nil {
			return fmt.Errorf("failed to analyze trends: %w", err)
		}
		if insightJSON {
			return printJSON(res)
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		bold.Println("Trends")
		if len(res.Trends) == 0 {
			fmt.Println(faint.Sprint("  none"))
		}
		for _, t := range res.Trends {
			fmt.Printf("  %s %s %s\n", padRight(t.Metric, 18), padRight(t.Trend, 12), faint.Sprint(t.Significance))
			if t.Description != "" {
				fmt.Printf("    %s\n", t.Description)
			}
		}
		fmt.Println()
		bold.Println("Patterns")
		if len(res.Patterns) == 0 {
			fmt.Println(faint.Sprint("  none"))
		}
		for _, p := range res.Patterns {
			fmt.Printf("  • %s\n", p.Pattern)
			if p.Correlation != "" {
				fmt.Printf("    %s\n", faint.Sprint(p.Correlation))
			}
			if p.Recommendation != "" {
				fmt.Printf("    → %s\n", p.Recommendation)
			}
		}
		return nil
	},
}

var insightsGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Suggest goals based on recent data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !insightsReady() {
			return nil
		}
		res, err := insightSvc.RecommendGoals(cmd.Context(), insightDays)
		if err != nil {
			return fmt.Errorf("failed to recommend goals: %w", err)
		}
		if insightJSON {
			return printJSON(res)
		}

		if len(res.RecommendedGoals) == 0 {
			fmt.Println("No goal suggestions.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, g := range res.RecommendedGoals {
			fmt.Printf("%s %s\n", color.CyanString(padRight(g.GoalType, 15)), g.Description)
			fmt.Printf("  target %s, %s\n", g.TargetValue, g.Timeframe)
			if g.Rationale != "" {
				fmt.Printf("  %s\n", faint.Sprint(g.Rationale))
			}
		}
		return nil
	},
}

var insightsHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "List previously generated insights",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := repo.ListInsights(cmd.Context(), insightDays)
		if err != nil {
			return fmt.Errorf("failed to list insights: %w", err)
		}
		if insightJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No insights recorded.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, i := range list {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(i.ID.String()[:8]),
				faint.Sprint(i.DateGenerated.Format("2006-01-02")),
				padRight(i.InsightType, 22),
				truncate(i.Content, 60))
		}
		return nil
	},
}

func insightsReady() bool {
	if insightSvc.Available() {
		return true
	}
	fmt.Println(color.YellowString("✗"), "No language model configured. Set ANTHROPIC_API_KEY or GEMINI_API_KEY.")
	return false
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	color.New(color.Bold).Println(title)
	for _, item := range items {
		fmt.Printf("  • %s\n", item)
	}
	fmt.Println()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	insightsCmd.PersistentFlags().IntVarP(&insightDays, "days", "d", 30, "days of data to consider")
	insightsCmd.PersistentFlags().BoolVar(&insightJSON, "json", false, "print raw JSON")
	insightsCmd.AddCommand(insightsHealthCmd, insightsTrendsCmd, insightsGoalsCmd, insightsHistoryCmd)
	rootCmd.AddCommand(insightsCmd)
}
