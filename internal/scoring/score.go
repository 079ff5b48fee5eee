// ABOUTME: Bounded 0-100 health score computed from the most recent entries.
// ABOUTME: Each rule contributes points and a named factor when it passes.
package scoring

import (
	"github.com/harperreed/healthdash/internal/models"
)

// RecentWindow is how many of the latest entries the score considers.
const RecentWindow = 7

// MaxScore caps the health score.
const MaxScore = 100

// Factor names reported alongside the score.
const (
	FactorWeightStability    = "Weight stability"
	FactorGoodBP             = "Good blood pressure"
	FactorAcceptableBP       = "Acceptable blood pressure"
	FactorNormalHeartRate    = "Normal heart rate"
	FactorAdequateSleep      = "Adequate sleep"
	FactorReasonableSleep    = "Reasonable sleep"
	FactorSufficientExercise = "Sufficient exercise"
	FactorSomeExercise       = "Some exercise"
)

// Result is a computed health score.
type Result struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// Score rates the last RecentWindow entries. entries must be ordered by
// date ascending. A metric missing from every recent entry skips its rule.
func Score(entries []*models.HealthEntry) Result {
	res := Result{Factors: []string{}}
	if len(entries) == 0 {
		return res
	}
	recent := Tail(entries, RecentWindow)

	add := func(points int, factor string) {
		res.Score += points
		res.Factors = append(res.Factors, factor)
	}

	if w := Weights(recent); len(w) >= 2 && StdDev(w) < 1 {
		add(20, FactorWeightStability)
	}

	sys, okSys := Mean(Systolics(recent))
	dia, okDia := Mean(Diastolics(recent))
	if okSys && okDia {
		switch {
		case sys < 120 && dia < 80:
			add(25, FactorGoodBP)
		case sys < 140 && dia < 90:
			add(15, FactorAcceptableBP)
		}
	}

	if hr, ok := Mean(HeartRates(recent)); ok && hr >= 60 && hr <= 100 {
		add(20, FactorNormalHeartRate)
	}

	if sleep, ok := Mean(SleepHours(recent)); ok {
		switch {
		case sleep >= 7 && sleep <= 9:
			add(20, FactorAdequateSleep)
		case sleep >= 6 && sleep <= 10:
			add(10, FactorReasonableSleep)
		}
	}

	if ex := ExerciseMinutes(recent); len(ex) > 0 {
		switch total := Sum(ex); {
		case total >= 150:
			add(15, FactorSufficientExercise)
		case total >= 75:
			add(10, FactorSomeExercise)
		}
	}

	if res.Score > MaxScore {
		res.Score = MaxScore
	}
	return res
}

// Tail returns the last n entries.
func Tail(entries []*models.HealthEntry, n int) []*models.HealthEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
