// ABOUTME: System instructions and user prompts for each insight operation.
// ABOUTME: Every prompt asks for a single JSON object.
package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/healthdash/internal/models"
)

const (
	healthSystemPrompt = "You are a knowledgeable health advisor AI. Provide helpful, accurate health insights " +
		"while emphasizing the importance of consulting healthcare professionals for medical advice."
	goalsSystemPrompt  = "You are a health goal advisor. Recommend SMART health goals based on user data."
	trendsSystemPrompt = "You are a health data analyst. Identify meaningful trends and patterns in health data."
)

// Token budgets per operation.
const (
	healthMaxTokens = 1500
	goalsMaxTokens  = 1000
	trendsMaxTokens = 1000
)

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func healthRequest(summary *DataSummary) Request {
	prompt := fmt.Sprintf(`Review the health data summary below and give an overall assessment with practical recommendations.

Health data summary:
%s

Respond with a single JSON object of this shape:
{
  "overall_health": "short overall assessment",
  "recommendations": ["3-5 specific, actionable recommendations"],
  "trends": ["notable trends in the data"],
  "risk_factors": ["potential risk factors"],
  "positive_aspects": ["positive health indicators"],
  "areas_for_improvement": ["areas that need attention"]
}

Keep the tone supportive, focus on patterns in the data, and prefer advice the user can act on.`, toJSON(summary))

	return Request{System: healthSystemPrompt, Prompt: prompt, MaxTokens: healthMaxTokens}
}

func goalsRequest(summary *DataSummary, goals *GoalsSummary) Request {
	healthCtx := "No health data available"
	if summary != nil {
		healthCtx = toJSON(summary)
	}
	goalsCtx := "No existing goals"
	if goals != nil {
		goalsCtx = toJSON(goals)
	}

	types := make([]string, len(models.AllGoalTypes))
	for i, gt := range models.AllGoalTypes {
		types[i] = string(gt)
	}

	prompt := fmt.Sprintf(`Recommend 3-5 SMART health goals for this user based on their data and current goals.

Current health data:
%s

Existing goals:
%s

Respond with a single JSON object of this shape:
{
  "recommended_goals": [
    {
      "goal_type": "%s",
      "description": "specific goal description",
      "target_value": "numeric target",
      "timeframe": "suggested timeframe in days",
      "rationale": "why this goal fits the data"
    }
  ]
}

Goals must be specific, measurable, realistic and time-bound, and must not repeat an existing active goal.`,
		healthCtx, goalsCtx, strings.Join(types, "|"))

	return Request{System: goalsSystemPrompt, Prompt: prompt, MaxTokens: goalsMaxTokens}
}

func trendsRequest(trends map[string]TrendData) Request {
	prompt := fmt.Sprintf(`Identify significant trends and patterns in the following per-metric health data:

%s

Respond with a single JSON object of this shape:
{
  "trends": [
    {
      "metric": "metric name",
      "trend": "increasing|decreasing|stable",
      "significance": "high|medium|low",
      "description": "what changed and how much"
    }
  ],
  "patterns": [
    {
      "pattern": "pattern description",
      "correlation": "related metrics or factors",
      "recommendation": "suggested action"
    }
  ]
}`, toJSON(trends))

	return Request{System: trendsSystemPrompt, Prompt: prompt, MaxTokens: trendsMaxTokens}
}
