// ABOUTME: Insight model for the append-only log of generated narratives.
// ABOUTME: Insights are written once and never updated.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Insight types written by the insight service.
const (
	InsightHealth        = "health_insights"
	InsightTrends        = "trend_analysis"
	InsightGoalSuggested = "goal_recommendations"
)

// Insight is one generated narrative about the user's data.
type Insight struct {
	ID              uuid.UUID  `json:"id" yaml:"id"`
	InsightType     string     `json:"insight_type" yaml:"insight_type"`
	Content         string     `json:"content" yaml:"content"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty" yaml:"confidence_score,omitempty"`
	DateGenerated   time.Time  `json:"date_generated" yaml:"date_generated"`
	DataPeriodStart *time.Time `json:"data_period_start,omitempty" yaml:"data_period_start,omitempty"`
	DataPeriodEnd   *time.Time `json:"data_period_end,omitempty" yaml:"data_period_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at" yaml:"created_at"`
}

// NewInsight creates an insight generated today.
func NewInsight(insightType, content string) *Insight {
	now := time.Now().UTC()
	return &Insight{
		ID:            uuid.New(),
		InsightType:   insightType,
		Content:       content,
		DateGenerated: Day(now),
		CreatedAt:     now,
	}
}

// WithConfidence sets a confidence score, clamped to [0,1].
func (i *Insight) WithConfidence(c float64) *Insight {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	i.ConfidenceScore = &c
	return i
}

// WithPeriod records the date range of data the insight was derived from.
func (i *Insight) WithPeriod(start, end time.Time) *Insight {
	s, e := Day(start), Day(end)
	i.DataPeriodStart = &s
	i.DataPeriodEnd = &e
	return i
}
