// ABOUTME: Insight service: loads data, calls the model once, and fails soft.
// ABOUTME: Successful results are appended to the insight log.
package insights

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/storage"
)

// DefaultDays is the lookback window used when callers pass days <= 0.
const DefaultDays = 30

// Service generates narrative insights from stored health data.
type Service struct {
	completer Completer
	repo      storage.Repository
	log       *log.Logger
}

// NewService wires a service. A nil completer makes every operation return
// its fallback without a network call.
func NewService(completer Completer, repo storage.Repository, logger *log.Logger) *Service {
	return &Service{completer: completer, repo: repo, log: logger}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s.completer != nil
}

// Provider returns the configured provider name, or "" when unavailable.
func (s *Service) Provider() string {
	if s.completer == nil {
		return ""
	}
	return s.completer.Name()
}

func noDataInsights() *HealthInsights {
	return &HealthInsights{
		OverallHealth:       "No data available for analysis",
		Recommendations:     []string{"Please log your health data to receive personalized insights"},
		Trends:              []string{},
		RiskFactors:         []string{},
		PositiveAspects:     []string{},
		AreasForImprovement: []string{},
		Available:           true,
	}
}

func fallbackInsights() *HealthInsights {
	return &HealthInsights{
		OverallHealth:       "Unable to generate insights at this time",
		Recommendations:     []string{"Please ensure your API key is configured correctly"},
		Trends:              []string{},
		RiskFactors:         []string{},
		PositiveAspects:     []string{},
		AreasForImprovement: []string{},
	}
}

func fallbackTrends() *TrendAnalysis {
	return &TrendAnalysis{Trends: []Trend{}, Patterns: []Pattern{}}
}

func fallbackGoals() *GoalRecommendations {
	return &GoalRecommendations{RecommendedGoals: []GoalRecommendation{}}
}

func (s *Service) entries(ctx context.Context, days int) ([]*models.HealthEntry, error) {
	if days <= 0 {
		days = DefaultDays
	}
	return s.repo.ListEntries(ctx, days)
}

// complete runs one request. Errors are classified as external API errors.
func (s *Service) complete(ctx context.Context, op string, req Request) (string, error) {
	if s.completer == nil {
		s.log.Warn("insights unavailable: no API key configured", "op", op)
		return "", apperr.Config("no language model API key configured")
	}
	s.log.Debug("requesting insight", "op", op, "provider", s.completer.Name(), "max_tokens", req.MaxTokens)
	text, err := s.completer.Complete(ctx, req)
	if err != nil {
		err = apperr.External(err, s.completer.Name())
		s.log.Warn("insight request failed", "op", op, "err", err)
		return "", err
	}
	return text, nil
}

// GenerateHealthInsights assesses the last days of entries. Only storage
// failures are returned as errors; provider and parse failures yield the
// fallback with Available=false.
func (s *Service) GenerateHealthInsights(ctx context.Context, days int) (*HealthInsights, error) {
	entries, err := s.entries(ctx, days)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return noDataInsights(), nil
	}

	text, err := s.complete(ctx, "health_insights", healthRequest(BuildDataSummary(entries)))
	if err != nil {
		return fallbackInsights(), nil
	}
	result, err := ParseHealthInsights(text)
	if err != nil {
		s.log.Warn("could not parse health insights", "err", err)
		return fallbackInsights(), nil
	}

	s.record(ctx, models.InsightHealth, result, entries)
	return result, nil
}

// AnalyzeTrends describes how each metric moved over the last days.
func (s *Service) AnalyzeTrends(ctx context.Context, days int) (*TrendAnalysis, error) {
	entries, err := s.entries(ctx, days)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return &TrendAnalysis{Trends: []Trend{}, Patterns: []Pattern{}, Available: true}, nil
	}

	text, err := s.complete(ctx, "trend_analysis", trendsRequest(BuildTrendData(entries)))
	if err != nil {
		return fallbackTrends(), nil
	}
	result, err := ParseTrendAnalysis(text)
	if err != nil {
		s.log.Warn("could not parse trend analysis", "err", err)
		return fallbackTrends(), nil
	}

	s.record(ctx, models.InsightTrends, result, entries)
	return result, nil
}

// RecommendGoals suggests new goals given recent data and existing goals.
func (s *Service) RecommendGoals(ctx context.Context, days int) (*GoalRecommendations, error) {
	entries, err := s.entries(ctx, days)
	if err != nil {
		return nil, err
	}
	goals, err := s.repo.ListGoals(ctx, nil)
	if err != nil {
		return nil, err
	}

	text, err := s.complete(ctx, "goal_recommendations", goalsRequest(BuildDataSummary(entries), BuildGoalsSummary(goals)))
	if err != nil {
		return fallbackGoals(), nil
	}
	result, err := ParseGoalRecommendations(text)
	if err != nil {
		s.log.Warn("could not parse goal recommendations", "err", err)
		return fallbackGoals(), nil
	}
	return result, nil
}

// record appends a result to the insight log. Failures are logged only.
func (s *Service) record(ctx context.Context, insightType string, result any, entries []*models.HealthEntry) {
	content, err := json.Marshal(result)
	if err != nil {
		s.log.Warn("could not encode insight", "type", insightType, "err", err)
		return
	}
	insight := models.NewInsight(insightType, string(content))
	if len(entries) > 0 {
		insight.WithPeriod(entries[0].Date, entries[len(entries)-1].Date)
	}
	if err := s.repo.SaveInsight(ctx, insight); err != nil {
		s.log.Warn("could not save insight", "type", insightType, "err", err)
	}
}
