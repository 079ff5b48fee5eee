// ABOUTME: Loosely typed entry and goal inputs from forms, flags and request bodies.
// ABOUTME: Converts them into models, reporting malformed dates as errors.
package models

import (
	"fmt"
	"strings"
)

// EntryInput is an entry as submitted by a caller. An empty Date means today.
type EntryInput struct {
	Date            string   `json:"date,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	BPSystolic      *int     `json:"bp_systolic,omitempty"`
	BPDiastolic     *int     `json:"bp_diastolic,omitempty"`
	HeartRate       *int     `json:"heart_rate,omitempty"`
	SleepHours      *float64 `json:"sleep_hours,omitempty"`
	ExerciseMinutes *int     `json:"exercise_minutes,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Symptoms        string   `json:"symptoms,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// ToEntry builds a HealthEntry. Range checks are left to Validate.
func (in EntryInput) ToEntry() (*HealthEntry, error) {
	day := Today()
	if s := strings.TrimSpace(in.Date); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		day = d
	}
	e := NewHealthEntry(day)
	e.Weight = in.Weight
	e.BPSystolic = in.BPSystolic
	e.BPDiastolic = in.BPDiastolic
	e.HeartRate = in.HeartRate
	e.SleepHours = in.SleepHours
	e.ExerciseMinutes = in.ExerciseMinutes
	e.Mood = Mood(strings.TrimSpace(in.Mood))
	e.Symptoms = strings.TrimSpace(in.Symptoms)
	e.Notes = strings.TrimSpace(in.Notes)
	return e, nil
}

// GoalInput is a new goal as submitted by a caller.
type GoalInput struct {
	GoalType     string  `json:"goal_type"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value,omitempty"`
	TargetDate   string  `json:"target_date"`
	Description  string  `json:"description"`
}

// ToGoal builds an active Goal.
func (in GoalInput) ToGoal() (*Goal, error) {
	if !IsValidGoalType(in.GoalType) {
		return nil, fmt.Errorf("unknown goal type: %s", in.GoalType)
	}
	target, err := ParseDate(strings.TrimSpace(in.TargetDate))
	if err != nil {
		return nil, err
	}
	return NewGoal(GoalType(in.GoalType), in.TargetValue, target, strings.TrimSpace(in.Description)).
		WithCurrentValue(in.CurrentValue), nil
}
