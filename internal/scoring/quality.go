// ABOUTME: Data quality checks over the full entry history.
// ABOUTME: Flags logging gaps and weight outliers, and reports per-metric completeness.
package scoring

import (
	"fmt"
	"sort"

	"github.com/harperreed/healthdash/internal/models"
)

// MaxGapDays is the longest stretch between entries that is not flagged.
const MaxGapDays = 7

// CompletenessMetrics lists the metrics reported by Completeness, in display order.
var CompletenessMetrics = []string{"weight", "heart_rate", "bp_systolic", "sleep_hours", "exercise_minutes"}

// QualityReport lists data quality issues.
type QualityReport struct {
	Gaps           []string `json:"gaps"`
	WeightOutliers int      `json:"weight_outliers"`
	Issues         []string `json:"issues"`
	// Completeness is the percentage of entries logging each metric.
	Completeness map[string]float64 `json:"completeness"`
}

// OK reports whether no issues were found.
func (q QualityReport) OK() bool {
	return len(q.Issues) == 0
}

// DataQuality scans entries for gaps and weight outliers. Outliers fall
// outside Q1-1.5*IQR..Q3+1.5*IQR.
func DataQuality(entries []*models.HealthEntry) QualityReport {
	report := QualityReport{Gaps: []string{}, Issues: []string{}, Completeness: Completeness(entries)}

	sorted := append([]*models.HealthEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].Date, sorted[i].Date
		gap := int(cur.Sub(prev).Hours() / 24)
		if gap > MaxGapDays {
			report.Gaps = append(report.Gaps, fmt.Sprintf("Gap of %d days between %s and %s",
				gap, prev.Format(models.DateLayout), cur.Format(models.DateLayout)))
		}
	}
	report.Issues = append(report.Issues, report.Gaps...)

	weights := Weights(sorted)
	if len(weights) > 0 {
		sort.Float64s(weights)
		q1 := Quantile(weights, 0.25)
		q3 := Quantile(weights, 0.75)
		iqr := q3 - q1
		lower, upper := q1-1.5*iqr, q3+1.5*iqr
		for _, w := range weights {
			if w < lower || w > upper {
				report.WeightOutliers++
			}
		}
	}
	if report.WeightOutliers > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("Weight outliers: %d records", report.WeightOutliers))
	}
	return report
}

// Completeness returns, per metric, the percentage of entries where it is
// logged. Every metric reports 0 when there are no entries.
func Completeness(entries []*models.HealthEntry) map[string]float64 {
	counts := make(map[string]int, len(CompletenessMetrics))
	for _, e := range entries {
		if e.Weight != nil {
			counts["weight"]++
		}
		if e.HeartRate != nil {
			counts["heart_rate"]++
		}
		if e.BPSystolic != nil {
			counts["bp_systolic"]++
		}
		if e.SleepHours != nil {
			counts["sleep_hours"]++
		}
		if e.ExerciseMinutes != nil {
			counts["exercise_minutes"]++
		}
	}

	out := make(map[string]float64, len(CompletenessMetrics))
	for _, m := range CompletenessMetrics {
		if len(entries) == 0 {
			out[m] = 0
			continue
		}
		out[m] = float64(counts[m]) / float64(len(entries)) * 100
	}
	return out
}
