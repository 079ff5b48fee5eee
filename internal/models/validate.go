// ABOUTME: Range validation for health entries.
// ABOUTME: Returns human-readable messages; an entry with any message is not saved.
package models

import "math"

// Validate checks each logged field against its plausible range.
// It returns nil when the entry is acceptable.
func (e *HealthEntry) Validate() []string {
	var msgs []string

	if e.Weight != nil && (!finite(*e.Weight) || *e.Weight <= 0 || *e.Weight > 500) {
		msgs = append(msgs, "Weight must be between 1 and 500 kg")
	}
	if e.BPSystolic != nil && (*e.BPSystolic < 70 || *e.BPSystolic > 300) {
		msgs = append(msgs, "Systolic blood pressure must be between 70 and 300 mmHg")
	}
	if e.BPDiastolic != nil && (*e.BPDiastolic < 40 || *e.BPDiastolic > 200) {
		msgs = append(msgs, "Diastolic blood pressure must be between 40 and 200 mmHg")
	}
	if e.HeartRate != nil && (*e.HeartRate < 30 || *e.HeartRate > 220) {
		msgs = append(msgs, "Heart rate must be between 30 and 220 bpm")
	}
	if e.SleepHours != nil && (!finite(*e.SleepHours) || *e.SleepHours < 0 || *e.SleepHours > 24) {
		msgs = append(msgs, "Sleep hours must be between 0 and 24")
	}
	if e.ExerciseMinutes != nil && (*e.ExerciseMinutes < 0 || *e.ExerciseMinutes > 1440) {
		msgs = append(msgs, "Exercise minutes must be between 0 and 1440 (24 hours)")
	}
	if e.Mood != "" && !IsValidMood(string(e.Mood)) {
		msgs = append(msgs, "Mood must be one of Excellent, Good, Average, Poor, Very Poor")
	}
	if e.Date.IsZero() {
		msgs = append(msgs, "Date is required")
	}

	return msgs
}

// finite rejects NaN and ±Inf, which pass every range comparison.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
