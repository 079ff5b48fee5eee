// ABOUTME: Goal model with GoalType and GoalStatus enums.
// ABOUTME: Progress updates flip a goal to completed once the target is reached.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalType is the metric family a goal targets.
type GoalType string

const (
	GoalWeightLoss    GoalType = "weight_loss"
	GoalWeightGain    GoalType = "weight_gain"
	GoalExercise      GoalType = "exercise"
	GoalSleep         GoalType = "sleep"
	GoalHeartRate     GoalType = "heart_rate"
	GoalBloodPressure GoalType = "blood_pressure"
	GoalGeneral       GoalType = "general"
)

// AllGoalTypes returns all valid goal types.
var AllGoalTypes = []GoalType{
	GoalWeightLoss, GoalWeightGain, GoalExercise, GoalSleep,
	GoalHeartRate, GoalBloodPressure, GoalGeneral,
}

// IsValidGoalType checks if a string is a valid goal type.
func IsValidGoalType(s string) bool {
	for _, gt := range AllGoalTypes {
		if string(gt) == s {
			return true
		}
	}
	return false
}

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// IsValidGoalStatus checks if a string is a valid goal status.
func IsValidGoalStatus(s string) bool {
	switch GoalStatus(s) {
	case GoalActive, GoalCompleted, GoalPaused:
		return true
	}
	return false
}

// Goal is a user-defined target value for a metric type with a deadline.
type Goal struct {
	ID           uuid.UUID  `json:"id" yaml:"id"`
	GoalType     GoalType   `json:"goal_type" yaml:"goal_type"`
	TargetValue  float64    `json:"target_value" yaml:"target_value"`
	CurrentValue float64    `json:"current_value" yaml:"current_value"`
	TargetDate   time.Time  `json:"target_date" yaml:"target_date"`
	Description  string     `json:"description" yaml:"description"`
	Status       GoalStatus `json:"status" yaml:"status"`
	CreatedDate  time.Time  `json:"created_date" yaml:"created_date"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" yaml:"updated_at"`
}

// NewGoal creates an active goal with zero progress.
func NewGoal(goalType GoalType, target float64, targetDate time.Time, description string) *Goal {
	now := time.Now().UTC()
	return &Goal{
		ID:          uuid.New(),
		GoalType:    goalType,
		TargetValue: target,
		TargetDate:  Day(targetDate),
		Description: description,
		Status:      GoalActive,
		CreatedDate: Day(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithCurrentValue sets the starting progress.
func (g *Goal) WithCurrentValue(v float64) *Goal {
	g.CurrentValue = v
	return g
}

// ApplyProgress records a new current value. Reaching the target completes
// the goal; a completed goal stays completed.
func (g *Goal) ApplyProgress(value float64) {
	g.CurrentValue = value
	if value >= g.TargetValue {
		g.Status = GoalCompleted
	}
	g.UpdatedAt = time.Now().UTC()
}

// SetStatus performs a manual status change. Completed goals cannot be
// reopened, and only paused goals can be resumed. Completing a goal by hand
// raises its current value to the target.
func (g *Goal) SetStatus(status GoalStatus) error {
	if !IsValidGoalStatus(string(status)) {
		return fmt.Errorf("unknown goal status: %s", status)
	}
	if g.Status == status {
		return nil
	}
	if g.Status == GoalCompleted {
		return fmt.Errorf("goal is already completed")
	}
	if status == GoalActive && g.Status != GoalPaused {
		return fmt.Errorf("only paused goals can be resumed")
	}
	if status == GoalCompleted {
		g.CurrentValue = max(g.CurrentValue, g.TargetValue)
	}
	g.Status = status
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Progress returns progress toward the target as a percentage capped at 100.
func (g *Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	p := g.CurrentValue / g.TargetValue * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// DaysLeft returns whole days from now until the target date.
func (g *Goal) DaysLeft(now time.Time) int {
	return int(g.TargetDate.Sub(Day(now)).Hours() / 24)
}
