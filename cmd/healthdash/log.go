// ABOUTME: CLI command for logging a day's health entry.
// ABOUTME: Takes metrics from flags, or from an interactive form when none are given.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/spf13/cobra"
)

var (
	logDate      string
	logWeight    float64
	logBP        string
	logHeartRate int
	logSleep     float64
	logExercise  int
	logMood      string
	logSymptoms  string
	logNotes     string
)

// metricFlags are the flags that count as entry data.
var metricFlags = []string{"weight", "bp", "heart-rate", "sleep", "exercise", "mood", "symptoms", "notes"}

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"add", "a"},
	Short:   "Log today's health entry",
	Long: `Log a daily health entry. There is one entry per day; logging again for
the same date replaces that day's values.

With no metric flags an interactive form is shown.

RANGES:

  weight       1-500 kg
  bp           70-300 / 40-200 mmHg (systolic/diastolic)
  heart-rate   30-220 bpm
  sleep        0-24 hours
  exercise     0-1440 minutes
  mood         Excellent, Good, Average, Poor, Very Poor

EXAMPLES:

  healthdash log --weight 82.5 --bp 120/80 --heart-rate 62
  healthdash log --sleep 7.5 --exercise 45 --mood Good
  healthdash log --date 2026-10-01 --weight 83.1 --notes "after travel"
  healthdash log                                  # interactive form`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in models.EntryInput
		var err error
		if anyChanged(cmd, metricFlags) {
			in, err = entryFromFlags(cmd)
		} else {
			in, err = entryFromForm()
		}
		if err != nil {
			return err
		}
		return saveEntry(cmd.Context(), in)
	},
}

func anyChanged(cmd *cobra.Command, names []string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func entryFromFlags(cmd *cobra.Command) (models.EntryInput, error) {
	in := models.EntryInput{
		Date:     logDate,
		Mood:     logMood,
		Symptoms: logSymptoms,
		Notes:    logNotes,
	}
	flags := cmd.Flags()
	if flags.Changed("weight") {
		in.Weight = &logWeight
	}
	if flags.Changed("bp") {
		sys, dia, err := parseBloodPressure(logBP)
		if err != nil {
			return in, err
		}
		in.BPSystolic, in.BPDiastolic = &sys, &dia
	}
	if flags.Changed("heart-rate") {
		in.HeartRate = &logHeartRate
	}
	if flags.Changed("sleep") {
		in.SleepHours = &logSleep
	}
	if flags.Changed("exercise") {
		in.ExerciseMinutes = &logExercise
	}
	return in, nil
}

func entryFromForm() (models.EntryInput, error) {
	date := logDate
	if date == "" {
		date = models.Today().Format(models.DateLayout)
	}
	var weight, bp, heartRate, sleep, exercise, mood, symptoms, notes string

	moodOptions := []huh.Option[string]{huh.NewOption("(skip)", "")}
	for _, m := range models.AllMoods {
		moodOptions = append(moodOptions, huh.NewOption(string(m), string(m)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Value(&date).Validate(func(s string) error {
				_, err := models.ParseDate(s)
				return err
			}),
			huh.NewInput().Title("Weight (kg)").Value(&weight).Validate(validFloat),
			huh.NewInput().Title("Blood pressure (120/80)").Value(&bp).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				_, _, err := parseBloodPressure(s)
				return err
			}),
			huh.NewInput().Title("Resting heart rate (bpm)").Value(&heartRate).Validate(validInt),
		),
		huh.NewGroup(
			huh.NewInput().Title("Sleep (hours)").Value(&sleep).Validate(validFloat),
			huh.NewInput().Title("Exercise (minutes)").Value(&exercise).Validate(validInt),
			huh.NewSelect[string]().Title("Mood").Options(moodOptions...).Value(&mood),
			huh.NewInput().Title("Symptoms").Value(&symptoms),
			huh.NewText().Title("Notes").Value(&notes),
		),
	)
	if err := form.Run(); err != nil {
		return models.EntryInput{}, err
	}

	in := models.EntryInput{Date: date, Mood: mood, Symptoms: symptoms, Notes: notes}
	in.Weight, _ = parseOptionalFloat(weight)
	in.HeartRate, _ = parseOptionalInt(heartRate)
	in.SleepHours, _ = parseOptionalFloat(sleep)
	in.ExerciseMinutes, _ = parseOptionalInt(exercise)
	if strings.TrimSpace(bp) != "" {
		sys, dia, _ := parseBloodPressure(bp)
		in.BPSystolic, in.BPDiastolic = &sys, &dia
	}
	return in, nil
}

func saveEntry(ctx context.Context, in models.EntryInput) error {
	e, err := in.ToEntry()
	if err != nil {
		return err
	}
	if err := repo.SaveEntry(ctx, e); err != nil {
		if details := apperr.Details(err); len(details) > 0 {
			for _, d := range details {
				fmt.Printf("  %s %s\n", color.YellowString("✗"), d)
			}
		}
		return fmt.Errorf("failed to save entry: %w", err)
	}

	color.Green("✓ Logged %s", e.DateString())
	printEntry(e)
	return nil
}

// parseBloodPressure parses "120/80".
func parseBloodPressure(s string) (int, int, error) {
	sysStr, diaStr, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid blood pressure %q (use SYS/DIA, e.g. 120/80)", s)
	}
	sys, err := strconv.Atoi(strings.TrimSpace(sysStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid systolic value: %s", sysStr)
	}
	dia, err := strconv.Atoi(strings.TrimSpace(diaStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid diastolic value: %s", diaStr)
	}
	return sys, dia, nil
}

// parseOptionalFloat returns nil for blank input.
func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number: %s", s)
	}
	return &v, nil
}

// parseOptionalInt returns nil for blank input.
func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid whole number: %s", s)
	}
	return &v, nil
}

func validFloat(s string) error {
	_, err := parseOptionalFloat(s)
	return err
}

func validInt(s string) error {
	_, err := parseOptionalInt(s)
	return err
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "entry date (YYYY-MM-DD, default today)")
	logCmd.Flags().Float64VarP(&logWeight, "weight", "w", 0, "weight in kg")
	logCmd.Flags().StringVar(&logBP, "bp", "", "blood pressure as SYS/DIA")
	logCmd.Flags().IntVar(&logHeartRate, "heart-rate", 0, "resting heart rate in bpm")
	logCmd.Flags().Float64VarP(&logSleep, "sleep", "s", 0, "hours slept")
	logCmd.Flags().IntVarP(&logExercise, "exercise", "e", 0, "exercise minutes")
	logCmd.Flags().StringVarP(&logMood, "mood", "m", "", "mood (Excellent, Good, Average, Poor, Very Poor)")
	logCmd.Flags().StringVar(&logSymptoms, "symptoms", "", "symptoms")
	logCmd.Flags().StringVarP(&logNotes, "notes", "n", "", "free-form notes")
	rootCmd.AddCommand(logCmd)
}
