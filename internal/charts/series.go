// ABOUTME: Chart-ready series derived from health entries.
// ABOUTME: Shared by the terminal renderers and the /api/charts endpoint.
package charts

import (
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
)

// RollingWindow is the smoothing window for the weight chart.
const RollingWindow = 7

// Point is one dated value.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BPPoint is one dated blood pressure reading.
type BPPoint struct {
	Date      string `json:"date"`
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
}

// Trend is a least-squares line over the weight readings, indexed by reading.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Series holds every chart input for a window of entries.
type Series struct {
	Weight          []Point        `json:"weight"`
	WeightRolling   []Point        `json:"weight_rolling_mean"`
	WeightTrend     *Trend         `json:"weight_trend,omitempty"`
	BloodPressure   []BPPoint      `json:"blood_pressure"`
	HeartRate       []Point        `json:"heart_rate"`
	SleepHours      []Point        `json:"sleep_hours"`
	ExerciseMinutes []Point        `json:"exercise_minutes"`
	Recent          scoring.Recent `json:"recent"`
}

// BuildSeries extracts chart series from entries ordered by date ascending.
// Days without a reading are left out of that metric's series.
func BuildSeries(entries []*models.HealthEntry) Series {
	s := Series{
		Weight:          []Point{},
		WeightRolling:   []Point{},
		BloodPressure:   []BPPoint{},
		HeartRate:       []Point{},
		SleepHours:      []Point{},
		ExerciseMinutes: []Point{},
		Recent:          scoring.RecentAverages(entries),
	}

	for _, e := range entries {
		day := e.DateString()
		if e.Weight != nil {
			s.Weight = append(s.Weight, Point{day, *e.Weight})
		}
		if e.BPSystolic != nil && e.BPDiastolic != nil {
			s.BloodPressure = append(s.BloodPressure, BPPoint{day, *e.BPSystolic, *e.BPDiastolic})
		}
		if e.HeartRate != nil {
			s.HeartRate = append(s.HeartRate, Point{day, float64(*e.HeartRate)})
		}
		if e.SleepHours != nil {
			s.SleepHours = append(s.SleepHours, Point{day, *e.SleepHours})
		}
		if e.ExerciseMinutes != nil {
			s.ExerciseMinutes = append(s.ExerciseMinutes, Point{day, float64(*e.ExerciseMinutes)})
		}
	}

	weights := values(s.Weight)
	for i, v := range scoring.RollingMean(weights, RollingWindow) {
		s.WeightRolling = append(s.WeightRolling, Point{s.Weight[i].Date, scoring.Round2(v)})
	}
	if slope, intercept, ok := scoring.LinearTrend(weights); ok {
		s.WeightTrend = &Trend{Slope: slope, Intercept: intercept}
	}
	return s
}

func values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
