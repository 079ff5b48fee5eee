// ABOUTME: Small numeric helpers over entry series: means, spread, trends.
// ABOUTME: Missing metrics are skipped rather than treated as zero.
package scoring

import (
	"math"

	"github.com/harperreed/healthdash/internal/models"
)

// Weights returns the logged weights in order.
func Weights(entries []*models.HealthEntry) []float64 {
	return collectFloat(entries, func(e *models.HealthEntry) *float64 { return e.Weight })
}

// SleepHours returns the logged sleep durations in order.
func SleepHours(entries []*models.HealthEntry) []float64 {
	return collectFloat(entries, func(e *models.HealthEntry) *float64 { return e.SleepHours })
}

// Systolics returns the logged systolic readings in order.
func Systolics(entries []*models.HealthEntry) []float64 {
	return collectInt(entries, func(e *models.HealthEntry) *int { return e.BPSystolic })
}

// Diastolics returns the logged diastolic readings in order.
func Diastolics(entries []*models.HealthEntry) []float64 {
	return collectInt(entries, func(e *models.HealthEntry) *int { return e.BPDiastolic })
}

// HeartRates returns the logged heart rates in order.
func HeartRates(entries []*models.HealthEntry) []float64 {
	return collectInt(entries, func(e *models.HealthEntry) *int { return e.HeartRate })
}

// ExerciseMinutes returns the logged exercise durations in order.
func ExerciseMinutes(entries []*models.HealthEntry) []float64 {
	return collectInt(entries, func(e *models.HealthEntry) *int { return e.ExerciseMinutes })
}

func collectFloat(entries []*models.HealthEntry, get func(*models.HealthEntry) *float64) []float64 {
	var out []float64
	for _, e := range entries {
		if v := get(e); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func collectInt(entries []*models.HealthEntry, get func(*models.HealthEntry) *int) []float64 {
	var out []float64
	for _, e := range entries {
		if v := get(e); v != nil {
			out = append(out, float64(*v))
		}
	}
	return out
}

// Sum adds up values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, or false when values is empty.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// StdDev is the sample standard deviation (n-1 denominator).
// It is 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, _ := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// TrendChange compares the mean of the second half of values to the first
// half and returns the percentage change. The split is at len/2. It returns
// false for fewer than two values and 0 when the first-half mean is 0.
func TrendChange(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	mid := len(values) / 2
	first, _ := Mean(values[:mid])
	second, _ := Mean(values[mid:])
	if first == 0 {
		return 0, true
	}
	return (second - first) / first * 100, true
}

// RollingMean smooths values with a trailing window. Points before the
// window fills average whatever is available so far.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// LinearTrend fits y = slope*x + intercept over x = 0..n-1 by least squares.
// It returns false for fewer than two points.
func LinearTrend(values []float64) (slope, intercept float64, ok bool) {
	n := float64(len(values))
	if len(values) < 2 {
		return 0, 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, true
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}

// Quantile returns the q-th quantile of sorted using linear interpolation
// between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
