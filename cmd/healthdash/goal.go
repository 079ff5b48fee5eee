// ABOUTME: CLI commands for managing goals.
// ABOUTME: Add, list, record progress, change status and delete by ID prefix.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/spf13/cobra"
)

var (
	goalBy      string
	goalDesc    string
	goalCurrent float64
	goalStatus  string
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Manage health goals",
	Long: `Manage health goals. Goals are referenced by ID or any unique ID prefix.

GOAL TYPES:

  weight_loss, weight_gain, exercise, sleep, heart_rate,
  blood_pressure, general

A goal completes automatically when recorded progress reaches its target.
Completed goals stay completed; paused goals can be resumed.`,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <type> <target>",
	Short: "Add a goal",
	Long: `Add a goal with a target value and deadline.

EXAMPLES:

  healthdash goal add sleep 8 --by 2026-12-31 -d "Sleep 8 hours a night"
  healthdash goal add weight_loss 5 --by 2027-03-01 -d "Lose 5 kg"
  healthdash goal add exercise 150 --by 2026-11-30 --current 60`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid target value: %s", args[1])
		}
		by := goalBy
		if by == "" {
			by = models.Today().AddDate(0, 0, 30).Format(models.DateLayout)
		}
		desc := goalDesc
		if desc == "" {
			desc = fmt.Sprintf("%s target %g", args[0], target)
		}

		g, err := models.GoalInput{
			GoalType:     args[0],
			TargetValue:  target,
			CurrentValue: goalCurrent,
			TargetDate:   by,
			Description:  desc,
		}.ToGoal()
		if err != nil {
			return fmt.Errorf("%w\nValid types: %s", err, goalTypeList())
		}

		if err := repo.CreateGoal(cmd.Context(), g); err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}

		color.Green("✓ Added goal")
		printGoal(g)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List goals",
	Long: `List goals with progress and days left.

EXAMPLES:

  healthdash goal list
  healthdash goal list --status active`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var status *models.GoalStatus
		if goalStatus != "" {
			if !models.IsValidGoalStatus(goalStatus) {
				return fmt.Errorf("unknown goal status: %s (use active, completed or paused)", goalStatus)
			}
			s := models.GoalStatus(goalStatus)
			status = &s
		}

		goals, err := repo.ListGoals(cmd.Context(), status)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		if len(goals) == 0 {
			fmt.Println("No goals found.")
			return nil
		}
		for _, g := range goals {
			printGoal(g)
		}
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <id> <value>",
	Short: "Record the current value for a goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}
		g, err := repo.UpdateGoalProgress(cmd.Context(), args[0], value)
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		if g.Status == models.GoalCompleted {
			color.Green("✓ Goal completed")
		} else {
			color.Green("✓ Updated goal")
		}
		printGoal(g)
		return nil
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.DeleteGoal(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete goal: %w", err)
		}
		color.Green("✓ Deleted goal %s", args[0])
		return nil
	},
}

// statusCommand builds a command that moves a goal to the given status.
func statusCommand(use, short string, status models.GoalStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := repo.SetGoalStatus(cmd.Context(), args[0], status)
			if err != nil {
				return fmt.Errorf("failed to %s goal: %w", use, err)
			}
			color.Green("✓ Goal %s", g.Status)
			printGoal(g)
			return nil
		},
	}
}

func printGoal(g *models.Goal) {
	faint := color.New(color.Faint)
	status := string(g.Status)
	switch g.Status {
	case models.GoalCompleted:
		status = color.GreenString(status)
	case models.GoalPaused:
		status = color.YellowString(status)
	}

	days := g.DaysLeft(time.Now())
	left := fmt.Sprintf("%dd left", days)
	if days < 0 {
		left = color.RedString("%dd overdue", -days)
	}

	fmt.Printf("%s %s %s %s %s/%s %s %s\n",
		faint.Sprint(g.ID.String()[:8]),
		padRight(string(g.GoalType), 15),
		padRight(status, 9),
		progressBar(g.Progress(), 10),
		strconv.FormatFloat(g.CurrentValue, 'f', -1, 64),
		strconv.FormatFloat(g.TargetValue, 'f', -1, 64),
		faint.Sprint(left),
		truncate(g.Description, 40))
}

// progressBar draws a fixed-width bar for a 0-100 percentage.
func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("[%s%s] %3.0f%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), pct)
}

func goalTypeList() string {
	names := make([]string, len(models.AllGoalTypes))
	for i, gt := range models.AllGoalTypes {
		names[i] = string(gt)
	}
	return strings.Join(names, ", ")
}

func init() {
	goalAddCmd.Flags().StringVar(&goalBy, "by", "", "target date (YYYY-MM-DD, default 30 days out)")
	goalAddCmd.Flags().StringVarP(&goalDesc, "description", "d", "", "goal description")
	goalAddCmd.Flags().Float64Var(&goalCurrent, "current", 0, "starting value")
	goalListCmd.Flags().StringVar(&goalStatus, "status", "", "filter by status (active, completed, paused)")

	goalCmd.AddCommand(
		goalAddCmd,
		goalListCmd,
		goalProgressCmd,
		statusCommand("pause", "Pause an active goal", models.GoalPaused),
		statusCommand("resume", "Resume a paused goal", models.GoalActive),
		statusCommand("complete", "Mark a goal completed", models.GoalCompleted),
		goalDeleteCmd,
	)
	rootCmd.AddCommand(goalCmd)
}
