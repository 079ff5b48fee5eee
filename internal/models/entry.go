// ABOUTME: HealthEntry model and Mood enum for daily health logs.
// ABOUTME: One entry per calendar date; optional metrics are pointers.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical calendar-date format used across storage and exports.
const DateLayout = "2006-01-02"

// Mood is the self-reported mood label on an entry.
type Mood string

const (
	MoodExcellent Mood = "Excellent"
	MoodGood      Mood = "Good"
	MoodAverage   Mood = "Average"
	MoodPoor      Mood = "Poor"
	MoodVeryPoor  Mood = "Very Poor"
)

// AllMoods lists moods from best to worst.
var AllMoods = []Mood{MoodExcellent, MoodGood, MoodAverage, MoodPoor, MoodVeryPoor}

// IsValidMood checks if a string is a valid mood label.
func IsValidMood(s string) bool {
	for _, m := range AllMoods {
		if string(m) == s {
			return true
		}
	}
	return false
}

// HealthEntry is one day's logged health metrics.
type HealthEntry struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	Date            time.Time `json:"date" yaml:"date"`
	Weight          *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	BPSystolic      *int      `json:"bp_systolic,omitempty" yaml:"bp_systolic,omitempty"`
	BPDiastolic     *int      `json:"bp_diastolic,omitempty" yaml:"bp_diastolic,omitempty"`
	HeartRate       *int      `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
	SleepHours      *float64  `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	ExerciseMinutes *int      `json:"exercise_minutes,omitempty" yaml:"exercise_minutes,omitempty"`
	Mood            Mood      `json:"mood,omitempty" yaml:"mood,omitempty"`
	Symptoms        string    `json:"symptoms,omitempty" yaml:"symptoms,omitempty"`
	Notes           string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewHealthEntry creates an empty entry for the given day.
func NewHealthEntry(date time.Time) *HealthEntry {
	now := time.Now().UTC()
	return &HealthEntry{
		ID:        uuid.New(),
		Date:      Day(date),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return Day(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// DateString formats the entry date as YYYY-MM-DD.
func (e *HealthEntry) DateString() string {
	return e.Date.Format(DateLayout)
}

// WithWeight sets weight in kg.
func (e *HealthEntry) WithWeight(kg float64) *HealthEntry {
	e.Weight = &kg
	return e
}

// WithBloodPressure sets systolic and diastolic readings.
func (e *HealthEntry) WithBloodPressure(sys, dia int) *HealthEntry {
	e.BPSystolic = &sys
	e.BPDiastolic = &dia
	return e
}

// WithHeartRate sets resting heart rate in bpm.
func (e *HealthEntry) WithHeartRate(bpm int) *HealthEntry {
	e.HeartRate = &bpm
	return e
}

// WithSleep sets hours slept.
func (e *HealthEntry) WithSleep(hours float64) *HealthEntry {
	e.SleepHours = &hours
	return e
}

// WithExercise sets exercise minutes.
func (e *HealthEntry) WithExercise(minutes int) *HealthEntry {
	e.ExerciseMinutes = &minutes
	return e
}

// WithMood sets the mood label.
func (e *HealthEntry) WithMood(m Mood) *HealthEntry {
	e.Mood = m
	return e
}

// WithNotes sets notes on the entry.
func (e *HealthEntry) WithNotes(notes string) *HealthEntry {
	e.Notes = notes
	return e
}

// WithSymptoms sets the free-text symptoms.
func (e *HealthEntry) WithSymptoms(symptoms string) *HealthEntry {
	e.Symptoms = symptoms
	return e
}
