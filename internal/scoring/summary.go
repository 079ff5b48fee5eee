// ABOUTME: Overview and recent-average summaries used by dashboards and charts.
// ABOUTME: Also derives goal progress and clinical category labels.
package scoring

import (
	"math"

	"github.com/harperreed/healthdash/internal/models"
)

// DateRange is an inclusive span of logged days.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// OverviewStats summarizes every entry in the store.
type OverviewStats struct {
	TotalEntries       int        `json:"total_entries"`
	AvgWeight          float64    `json:"avg_weight"`
	AvgHeartRate       float64    `json:"avg_heart_rate"`
	AvgSleepHours      float64    `json:"avg_sleep_hours"`
	AvgExerciseMinutes float64    `json:"avg_exercise_minutes"`
	DateRange          *DateRange `json:"date_range,omitempty"`
}

// Overview averages each metric across all entries. Zero readings are
// treated like missing ones, and an absent metric averages to 0.
func Overview(entries []*models.HealthEntry) OverviewStats {
	stats := OverviewStats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	stats.AvgWeight = nonZeroMean(Weights(entries))
	stats.AvgHeartRate = nonZeroMean(HeartRates(entries))
	stats.AvgSleepHours = nonZeroMean(SleepHours(entries))
	stats.AvgExerciseMinutes = nonZeroMean(ExerciseMinutes(entries))

	first, last := entries[0].Date, entries[0].Date
	for _, e := range entries[1:] {
		if e.Date.Before(first) {
			first = e.Date
		}
		if e.Date.After(last) {
			last = e.Date
		}
	}
	stats.DateRange = &DateRange{
		Start: first.Format(models.DateLayout),
		End:   last.Format(models.DateLayout),
	}
	return stats
}

func nonZeroMean(values []float64) float64 {
	var kept []float64
	for _, v := range values {
		if v != 0 {
			kept = append(kept, v)
		}
	}
	m, _ := Mean(kept)
	return m
}

// Recent holds averages over the last RecentWindow entries. A nil field
// means nothing was logged for that metric.
type Recent struct {
	Weight         *float64 `json:"avg_weight,omitempty"`
	HeartRate      *float64 `json:"avg_heart_rate,omitempty"`
	SleepHours     *float64 `json:"avg_sleep,omitempty"`
	WeeklyExercise *float64 `json:"weekly_exercise,omitempty"`
}

// RecentAverages computes the 7-entry summary. Exercise is a total.
func RecentAverages(entries []*models.HealthEntry) Recent {
	recent := Tail(entries, RecentWindow)
	var r Recent
	if m, ok := Mean(Weights(recent)); ok {
		r.Weight = &m
	}
	if m, ok := Mean(HeartRates(recent)); ok {
		r.HeartRate = &m
	}
	if m, ok := Mean(SleepHours(recent)); ok {
		r.SleepHours = &m
	}
	if ex := ExerciseMinutes(recent); len(ex) > 0 {
		total := Sum(ex)
		r.WeeklyExercise = &total
	}
	return r
}

// Progress returns a goal's completion percentage, capped at 100.
func Progress(g *models.Goal) float64 {
	return g.Progress()
}

// BMI computes body-mass index from kilograms and metres, rounded to one
// decimal. It returns false when height is not positive.
func BMI(weightKg, heightM float64) (float64, bool) {
	if weightKg <= 0 || heightM <= 0 {
		return 0, false
	}
	bmi := weightKg / (heightM * heightM)
	return math.Round(bmi*10) / 10, true
}

// BMICategory labels a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BloodPressureCategory labels a systolic/diastolic reading.
func BloodPressureCategory(systolic, diastolic int) string {
	switch {
	case systolic < 120 && diastolic < 80:
		return "Normal"
	case systolic < 130 && diastolic < 80:
		return "Elevated"
	case systolic < 140 || diastolic < 90:
		return "High Blood Pressure Stage 1"
	case systolic < 180 || diastolic < 120:
		return "High Blood Pressure Stage 2"
	default:
		return "Hypertensive Crisis"
	}
}

// HeartRateCategory labels a resting heart rate.
func HeartRateCategory(bpm int) string {
	switch {
	case bpm < 60:
		return "Below Normal (Bradycardia)"
	case bpm <= 100:
		return "Normal"
	default:
		return "Above Normal (Tachycardia)"
	}
}
