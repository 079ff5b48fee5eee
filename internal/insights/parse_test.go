// ABOUTME: Tests for parsing untrusted model responses.
// ABOUTME: Covers code fences and wrong field types.
package insights

import (
	"testing"
)

func TestParseHealthInsightsFenced(t *testing.T) {
	text := "Here you go:\n```json\n{\"overall_health\": \"Good\", \"recommendations\": [\"Walk daily\", 3], \"trends\": \"none\"}\n```"

	got, err := ParseHealthInsights(text)
	if err != nil {
		t.Fatalf("ParseHealthInsights failed: %v", err)
	}
	if got.OverallHealth != "Good" {
		t.Errorf("OverallHealth = %q", got.OverallHealth)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != "Walk daily" {
		t.Errorf("Recommendations = %v", got.Recommendations)
	}
	if got.Trends == nil || len(got.Trends) != 0 {
		t.Errorf("expected wrong-typed trends to become an empty list, got %v", got.Trends)
	}
	if got.RiskFactors == nil {
		t.Error("expected missing list to be empty, not nil")
	}
	if !got.Available {
		t.Error("expected Available")
	}
}

func TestParseHealthInsightsWrongTypes(t *testing.T) {
	got, err := ParseHealthInsights(`{"overall_health": {"text": "nested"}, "positive_aspects": null}`)
	if err != nil {
		t.Fatalf("ParseHealthInsights failed: %v", err)
	}
	if got.OverallHealth != "" {
		t.Errorf("expected empty overall health, got %q", got.OverallHealth)
	}
	if len(got.PositiveAspects) != 0 {
		t.Errorf("expected empty positive aspects, got %v", got.PositiveAspects)
	}
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, text := range []string{"", "no json here", "[1, 2, 3]", "{broken"} {
		if _, err := ParseHealthInsights(text); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}

func TestParseGoalRecommendations(t *testing.T) {
	text := `{"recommended_goals": [
		{"goal_type": "exercise", "description": "Walk 30 min", "target_value": 150, "timeframe": "30", "rationale": "low activity"},
		"not an object",
		{"goal_type": "sleep", "target_value": "8"}
	]}`

	got, err := ParseGoalRecommendations(text)
	if err != nil {
		t.Fatalf("ParseGoalRecommendations failed: %v", err)
	}
	if len(got.RecommendedGoals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(got.RecommendedGoals))
	}
	if got.RecommendedGoals[0].TargetValue != "150" {
		t.Errorf("expected numeric target rendered as text, got %q", got.RecommendedGoals[0].TargetValue)
	}
	if got.RecommendedGoals[1].Description != "" {
		t.Errorf("expected missing description empty, got %q", got.RecommendedGoals[1].Description)
	}
}

func TestParseTrendAnalysis(t *testing.T) {
	text := "```\n" + `{"trends": [{"metric": "weight", "trend": "decreasing", "significance": "medium", "description": "down 2%"}], "patterns": {"oops": true}}` + "\n```"

	got, err := ParseTrendAnalysis(text)
	if err != nil {
		t.Fatalf("ParseTrendAnalysis failed: %v", err)
	}
	if len(got.Trends) != 1 || got.Trends[0].Trend != "decreasing" {
		t.Errorf("Trends = %+v", got.Trends)
	}
	if got.Patterns == nil || len(got.Patterns) != 0 {
		t.Errorf("expected empty patterns, got %v", got.Patterns)
	}
}

func TestIsPlaceholderKey(t *testing.T) {
	tests := map[string]bool{
		"":                            true,
		"   ":                         true,
		"your-anthropic-api-key-here": true,
		"your-openai-api-key-here":    true,
		"sk-ant-real":                 false,
	}
	for key, want := range tests {
		if got := IsPlaceholderKey(key); got != want {
			t.Errorf("IsPlaceholderKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestNewCompleter(t *testing.T) {
	if NewCompleter(ProviderConfig{APIKey: "your-gemini-api-key-here", Provider: ProviderGemini}) != nil {
		t.Error("expected nil completer for placeholder key")
	}
	if c := NewCompleter(ProviderConfig{APIKey: "k"}); c == nil || c.Name() != ProviderAnthropic {
		t.Errorf("expected anthropic default, got %v", c)
	}
	if c := NewCompleter(ProviderConfig{APIKey: "k", Provider: "Gemini"}); c == nil || c.Name() != ProviderGemini {
		t.Errorf("expected gemini, got %v", c)
	}
}
