// ABOUTME: Parses untrusted model output into typed insight results.
// ABOUTME: Strips code fences, extracts the JSON object, then type-checks each field.
package insights

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\n?```")
	objectRegex    = regexp.MustCompile(`(?s)\{.*\}`)
)

// HealthInsights is the overall assessment returned by GenerateHealthInsights.
type HealthInsights struct {
	OverallHealth       string   `json:"overall_health"`
	Recommendations     []string `json:"recommendations"`
	Trends              []string `json:"trends"`
	RiskFactors         []string `json:"risk_factors"`
	PositiveAspects     []string `json:"positive_aspects"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Available           bool     `json:"available"`
}

// GoalRecommendation is one suggested goal. Values are kept as text since
// models return numbers and strings interchangeably.
type GoalRecommendation struct {
	GoalType    string `json:"goal_type"`
	Description string `json:"description"`
	TargetValue string `json:"target_value"`
	Timeframe   string `json:"timeframe"`
	Rationale   string `json:"rationale"`
}

// GoalRecommendations wraps suggested goals.
type GoalRecommendations struct {
	RecommendedGoals []GoalRecommendation `json:"recommended_goals"`
	Available        bool                 `json:"available"`
}

// Trend describes how one metric moved.
type Trend struct {
	Metric       string `json:"metric"`
	Trend        string `json:"trend"`
	Significance string `json:"significance"`
	Description  string `json:"description"`
}

// Pattern is a relationship the model noticed across metrics.
type Pattern struct {
	Pattern        string `json:"pattern"`
	Correlation    string `json:"correlation"`
	Recommendation string `json:"recommendation"`
}

// TrendAnalysis is the result of AnalyzeTrends.
type TrendAnalysis struct {
	Trends    []Trend   `json:"trends"`
	Patterns  []Pattern `json:"patterns"`
	Available bool      `json:"available"`
}

// decodeObject extracts and decodes the JSON object in text.
func decodeObject(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if !strings.HasPrefix(text, "{") {
		text = objectRegex.FindString(text)
	}
	if text == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return obj, nil
}

// ParseHealthInsights reads a health insights response.
func ParseHealthInsights(text string) (*HealthInsights, error) {
	obj, err := decodeObject(text)
	if err != nil {
		return nil, err
	}
	return &HealthInsights{
		OverallHealth:       str(obj["overall_health"]),
		Recommendations:     strList(obj["recommendations"]),
		Trends:              strList(obj["trends"]),
		RiskFactors:         strList(obj["risk_factors"]),
		PositiveAspects:     strList(obj["positive_aspects"]),
		AreasForImprovement: strList(obj["areas_for_improvement"]),
		Available:           true,
	}, nil
}

// ParseGoalRecommendations reads a goal recommendations response.
func ParseGoalRecommendations(text string) (*GoalRecommendations, error) {
	obj, err := decodeObject(text)
	if err != nil {
		return nil, err
	}
	out := &GoalRecommendations{RecommendedGoals: []GoalRecommendation{}, Available: true}
	for _, item := range objList(obj["recommended_goals"]) {
		out.RecommendedGoals = append(out.RecommendedGoals, GoalRecommendation{
			GoalType:    str(item["goal_type"]),
			Description: str(item["description"]),
			TargetValue: str(item["target_value"]),
			Timeframe:   str(item["timeframe"]),
			Rationale:   str(item["rationale"]),
		})
	}
	return out, nil
}

// ParseTrendAnalysis reads a trend analysis response.
func ParseTrendAnalysis(text string) (*TrendAnalysis, error) {
	obj, err := decodeObject(text)
	if err != nil {
		return nil, err
	}
	out := &TrendAnalysis{Trends: []Trend{}, Patterns: []Pattern{}, Available: true}
	for _, item := range objList(obj["trends"]) {
		out.Trends = append(out.Trends, Trend{
			Metric:       str(item["metric"]),
			Trend:        str(item["trend"]),
			Significance: str(item["significance"]),
			Description:  str(item["description"]),
		})
	}
	for _, item := range objList(obj["patterns"]) {
		out.Patterns = append(out.Patterns, Pattern{
			Pattern:        str(item["pattern"]),
			Correlation:    str(item["correlation"]),
			Recommendation: str(item["recommendation"]),
		})
	}
	return out, nil
}

// str renders strings and numbers as text; anything else becomes "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// strList keeps the string elements of a JSON array.
func strList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// objList keeps the object elements of a JSON array.
func objList(v any) []map[string]any {
	var out []map[string]any
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
