// ABOUTME: Builds the JSON context objects embedded in insight prompts.
// ABOUTME: Data summary, goals summary, and per-metric trend data.
package insights

import (
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
)

// metric pairs a summary key with its series extractor.
type metric struct {
	key       string
	values    func([]*models.HealthEntry) []float64
	lowerGood bool
}

var metrics = []metric{
	{"weight", scoring.Weights, true},
	{"bp_systolic", scoring.Systolics, true},
	{"bp_diastolic", scoring.Diastolics, true},
	{"heart_rate", scoring.HeartRates, false},
	{"sleep_hours", scoring.SleepHours, false},
	{"exercise_minutes", scoring.ExerciseMinutes, false},
}

// Average compares the recent mean of a metric to its overall mean.
type Average struct {
	Recent  float64 `json:"recent"`
	Overall float64 `json:"overall"`
	Trend   string  `json:"trend"`
}

// DataSummary is the health data context sent with every prompt.
type DataSummary struct {
	TotalEntries      int                `json:"total_entries"`
	DateRange         string             `json:"date_range"`
	RecentAverages    map[string]Average `json:"recent_averages"`
	RecentMoodPattern map[string]int     `json:"recent_mood_pattern"`
}

// BuildDataSummary summarizes entries ordered by date ascending. It returns
// nil for no entries.
func BuildDataSummary(entries []*models.HealthEntry) *DataSummary {
	if len(entries) == 0 {
		return nil
	}
	recent := scoring.Tail(entries, scoring.RecentWindow)

	s := &DataSummary{
		TotalEntries:      len(entries),
		DateRange:         entries[0].DateString() + " to " + entries[len(entries)-1].DateString(),
		RecentAverages:    map[string]Average{},
		RecentMoodPattern: map[string]int{},
	}

	for _, m := range metrics {
		recentAvg, okRecent := scoring.Mean(m.values(recent))
		overallAvg, okOverall := scoring.Mean(m.values(entries))
		if !okRecent || !okOverall {
			continue
		}
		trend := "stable"
		if m.lowerGood && recentAvg < overallAvg {
			trend = "improving"
		}
		s.RecentAverages[m.key] = Average{
			Recent:  scoring.Round2(recentAvg),
			Overall: scoring.Round2(overallAvg),
			Trend:   trend,
		}
	}

	for _, e := range recent {
		if e.Mood != "" {
			s.RecentMoodPattern[string(e.Mood)]++
		}
	}
	return s
}

// GoalDetail describes one active goal for the recommendation prompt.
type GoalDetail struct {
	GoalType     string  `json:"goal_type"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	Description  string  `json:"description"`
}

// GoalsSummary is the existing-goals context for goal recommendations.
type GoalsSummary struct {
	ActiveGoals    int          `json:"active_goals"`
	CompletedGoals int          `json:"completed_goals"`
	GoalTypes      []string     `json:"goal_types"`
	RecentGoals    []GoalDetail `json:"recent_goals"`
}

// BuildGoalsSummary returns nil when there are no goals at all.
func BuildGoalsSummary(goals []*models.Goal) *GoalsSummary {
	if len(goals) == 0 {
		return nil
	}
	s := &GoalsSummary{GoalTypes: []string{}, RecentGoals: []GoalDetail{}}
	for _, g := range goals {
		switch g.Status {
		case models.GoalActive:
			s.ActiveGoals++
			s.GoalTypes = append(s.GoalTypes, string(g.GoalType))
			s.RecentGoals = append(s.RecentGoals, GoalDetail{
				GoalType:     string(g.GoalType),
				TargetValue:  g.TargetValue,
				CurrentValue: g.CurrentValue,
				Description:  g.Description,
			})
		case models.GoalCompleted:
			s.CompletedGoals++
		}
	}
	return s
}

// TrendData is the per-metric series sent for trend analysis.
type TrendData struct {
	Values           []float64 `json:"values"`
	ChangePercentage float64   `json:"change_percentage"`
	CurrentValue     float64   `json:"current_value"`
	MinValue         float64   `json:"min_value"`
	MaxValue         float64   `json:"max_value"`
}

// trendHistory is how many trailing values each metric carries.
const trendHistory = 10

// BuildTrendData computes trend data for every metric with at least two
// logged values.
func BuildTrendData(entries []*models.HealthEntry) map[string]TrendData {
	out := map[string]TrendData{}
	for _, m := range metrics {
		values := m.values(entries)
		change, ok := scoring.TrendChange(values)
		if !ok {
			continue
		}
		lo, hi := values[0], values[0]
		for _, v := range values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		last := values
		if len(last) > trendHistory {
			last = last[len(last)-trendHistory:]
		}
		out[m.key] = TrendData{
			Values:           append([]float64(nil), last...),
			ChangePercentage: scoring.Round2(change),
			CurrentValue:     values[len(values)-1],
			MinValue:         lo,
			MaxValue:         hi,
		}
	}
	return out
}
