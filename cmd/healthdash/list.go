// ABOUTME: CLI commands for reading entries: list, show, delete and score.
// ABOUTME: Prints compact colored rows with clinical category labels on show.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	listDays   int
	showHeight float64
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List daily health entries",
	Long: `List logged entries, oldest first.

OUTPUT FORMAT:

  DATE  WEIGHT  BP  HR  SLEEP  EXERCISE  MOOD  (NOTES)

  Missing metrics are shown as "-".

EXAMPLES:

  healthdash list              # last 30 days
  healthdash list --days 7     # last week
  healthdash list --days 0     # everything`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := repo.ListEntries(cmd.Context(), listDays)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range entries {
			notes := ""
			if e.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(e.Notes, 30))
			}
			fmt.Printf("%s %s %s %s %s %s %s%s\n",
				faint.Sprint(e.DateString()),
				padRight(fmtFloat(e.Weight, "%.1fkg"), 8),
				padRight(fmtBP(e), 8),
				padRight(fmtInt(e.HeartRate, "%dbpm"), 7),
				padRight(fmtFloat(e.SleepHours, "%.1fh"), 6),
				padRight(fmtInt(e.ExerciseMinutes, "%dmin"), 7),
				padRight(string(e.Mood), 10),
				notes)
		}

		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show one day's entry in detail",
	Long: `Show a single entry with category labels for blood pressure and heart
rate. Pass --height (metres) to include BMI.

EXAMPLES:

  healthdash show                      # latest entry
  healthdash show 2026-10-01
  healthdash show --height 1.80`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var e *models.HealthEntry
		var err error
		if len(args) == 1 {
			day, perr := models.ParseDate(args[0])
			if perr != nil {
				return perr
			}
			e, err = repo.GetEntry(cmd.Context(), day)
		} else {
			e, err = repo.LatestEntry(cmd.Context())
		}
		if errors.Is(err, apperr.ErrNotFound) {
			fmt.Println("No entry found.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		printEntry(e)
		if e.BPSystolic != nil && e.BPDiastolic != nil {
			fmt.Printf("  %s %s\n", padRight("BP category", 14), scoring.BloodPressureCategory(*e.BPSystolic, *e.BPDiastolic))
		}
		if e.HeartRate != nil {
			fmt.Printf("  %s %s\n", padRight("HR category", 14), scoring.HeartRateCategory(*e.HeartRate))
		}
		if e.Weight != nil {
			if bmi, ok := scoring.BMI(*e.Weight, showHeight); ok {
				fmt.Printf("  %s %.1f (%s)\n", padRight("BMI", 14), bmi, scoring.BMICategory(bmi))
			}
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <date>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete the entry for a date",
	Long: `Delete the entry for a date.

EXAMPLES:

  healthdash delete 2026-10-01
  healthdash rm 2026-10-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := models.ParseDate(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteEntry(cmd.Context(), day); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		color.Green("✓ Deleted entry %s", args[0])
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the 0-100 health score",
	Long: `Compute the health score from the latest seven entries.

  Weight stability          up to 20
  Blood pressure            up to 25
  Resting heart rate        up to 20
  Sleep                     up to 20
  Exercise (weekly total)   up to 15`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := repo.ListEntries(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No entries yet. Log one with: healthdash log")
			return nil
		}

		result := scoring.Score(entries)
		fmt.Printf("Health score: %s\n", scoreColor(result.Score).Sprintf("%d/100", result.Score))
		for _, f := range result.Factors {
			fmt.Printf("  %s %s\n", color.GreenString("✓"), f)
		}
		return nil
	},
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printEntry(e *models.HealthEntry) {
	faint := color.New(color.Faint)
	rows := [][2]string{
		{"Date", e.DateString()},
		{"Weight", fmtFloat(e.Weight, "%.1f kg")},
		{"Blood pressure", fmtBP(e)},
		{"Heart rate", fmtInt(e.HeartRate, "%d bpm")},
		{"Sleep", fmtFloat(e.SleepHours, "%.1f h")},
		{"Exercise", fmtInt(e.ExerciseMinutes, "%d min")},
		{"Mood", string(e.Mood)},
		{"Symptoms", e.Symptoms},
		{"Notes", e.Notes},
	}
	for _, r := range rows {
		if r[1] == "" || r[1] == "-" {
			continue
		}
		fmt.Printf("  %s %s\n", faint.Sprint(padRight(r[0], 14)), r[1])
	}
}

func fmtFloat(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func fmtInt(v *int, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func fmtBP(e *models.HealthEntry) string {
	if e.BPSystolic == nil || e.BPDiastolic == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", *e.BPSystolic, *e.BPDiastolic)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().IntVarP(&listDays, "days", "d", 30, "days back to include (0 for all)")
	showCmd.Flags().Float64Var(&showHeight, "height", 0, "height in metres, for BMI")
	rootCmd.AddCommand(listCmd, showCmd, deleteCmd, scoreCmd)
}
