// ABOUTME: MCP tool implementations for entries, goals, scoring and insights.
// ABOUTME: Each tool is a thin call into storage, scoring or the insight service.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/healthdash/internal/insights"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/scoring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// entries
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_entry",
		Description: "Log (or replace) the health entry for a day: weight, blood pressure, heart rate, sleep, exercise, mood",
	}, s.handleLogEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_entries",
		Description: "List daily health entries from the last N days",
	}, s.handleListEntries)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_entry",
		Description: "Get the health entry for a date",
	}, s.handleGetEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_entry",
		Description: "Delete the health entry for a date",
	}, s.handleDeleteEntry)

	// scoring
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "health_score",
		Description: "Compute the 0-100 health score from the last 7 entries",
	}, s.handleHealthScore)

	// goals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_goal",
		Description: "Create a health goal with a target value and date",
	}, s.handleAddGoal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_goals",
		Description: "List goals, optionally filtered by status (active, completed, paused)",
	}, s.handleListGoals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_goal_progress",
		Description: "Set a goal's current value; reaching the target completes it",
	}, s.handleUpdateGoalProgress)

	// insights
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_insights",
		Description: "Generate AI health insights from recent entries",
	}, s.handleGenerateInsights)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_trends",
		Description: "Analyze metric trends and patterns with AI",
	}, s.handleAnalyzeTrends)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recommend_goals",
		Description: "Get AI goal recommendations based on recent data and current goals",
	}, s.handleRecommendGoals)
}

// Tool input/output types

type logEntryInput struct {
	Date            string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Weight          *float64 `json:"weight,omitempty" jsonschema:"Weight in kg"`
	BPSystolic      *int     `json:"bp_systolic,omitempty" jsonschema:"Systolic blood pressure in mmHg"`
	BPDiastolic     *int     `json:"bp_diastolic,omitempty" jsonschema:"Diastolic blood pressure in mmHg"`
	HeartRate       *int     `json:"heart_rate,omitempty" jsonschema:"Resting heart rate in bpm"`
	SleepHours      *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept"`
	ExerciseMinutes *int     `json:"exercise_minutes,omitempty" jsonschema:"Minutes of exercise"`
	Mood            string   `json:"mood,omitempty" jsonschema:"One of Excellent, Good, Average, Poor, Very Poor"`
	Symptoms        string   `json:"symptoms,omitempty" jsonschema:"Symptoms noticed"`
	Notes           string   `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type entryOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type daysInput struct {
	Days int `json:"days,omitempty" jsonschema:"Lookback in days (default 30, negative for all)"`
}

type dateInput struct {
	Date string `json:"date" jsonschema:"Date (YYYY-MM-DD)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type scoreInput struct{}

type scoreOutput struct {
	Score   int            `json:"score"`
	Factors []string       `json:"factors"`
	Recent  scoring.Recent `json:"recent"`
}

type addGoalInput struct {
	GoalType     string  `json:"goal_type" jsonschema:"weight_loss, weight_gain, exercise, sleep, heart_rate, blood_pressure or general"`
	TargetValue  float64 `json:"target_value" jsonschema:"Target value"`
	CurrentValue float64 `json:"current_value,omitempty" jsonschema:"Starting value"`
	TargetDate   string  `json:"target_date" jsonschema:"Target date (YYYY-MM-DD)"`
	Description  string  `json:"description" jsonschema:"What the goal is"`
}

type goalOutput struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

type listGoalsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status"`
}

type progressInput struct {
	ID    string  `json:"id" jsonschema:"Goal ID or prefix"`
	Value float64 `json:"value" jsonschema:"New current value"`
}

const defaultDays = 30

// days maps the tool's zero value to the default lookback. Negative asks for everything.
func (in daysInput) days() int {
	switch {
	case in.Days == 0:
		return defaultDays
	case in.Days < 0:
		return 0
	}
	return in.Days
}

// Tool handlers

func (s *Server) handleLogEntry(ctx context.Context, req *mcp.CallToolRequest, input logEntryInput) (*mcp.CallToolResult, entryOutput, error) {
	e, err := models.EntryInput{
		Date:            input.Date,
		Weight:          input.Weight,
		BPSystolic:      input.BPSystolic,
		BPDiastolic:     input.BPDiastolic,
		HeartRate:       input.HeartRate,
		SleepHours:      input.SleepHours,
		ExerciseMinutes: input.ExerciseMinutes,
		Mood:            input.Mood,
		Symptoms:        input.Symptoms,
		Notes:           input.Notes,
	}.ToEntry()
	if err != nil {
		return nil, entryOutput{}, err
	}

	if err := s.repo.SaveEntry(ctx, e); err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to save entry: %w", err)
	}

	return nil, entryOutput{
		ID:      e.ID.String()[:8],
		Date:    e.DateString(),
		Message: fmt.Sprintf("Saved entry for %s", e.DateString()),
	}, nil
}

func (s *Server) handleListEntries(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, any, error) {
	entries, err := s.repo.ListEntries(ctx, input.days())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		return nil, map[string]interface{}{"message": "No entries found."}, nil
	}

	return nil, map[string]interface{}{"entries": entries, "count": len(entries)}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	day, err := models.ParseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	e, err := s.repo.GetEntry(ctx, day)
	if err != nil {
		return nil, nil, err
	}
	return nil, e, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, simpleOutput, error) {
	day, err := models.ParseDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.DeleteEntry(ctx, day); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete entry: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted entry: %s", input.Date),
	}, nil
}

func (s *Server) handleHealthScore(ctx context.Context, req *mcp.CallToolRequest, input scoreInput) (*mcp.CallToolResult, scoreOutput, error) {
	entries, err := s.repo.ListEntries(ctx, 0)
	if err != nil {
		return nil, scoreOutput{}, fmt.Errorf("failed to list entries: %w", err)
	}
	res := scoring.Score(entries)
	return nil, scoreOutput{
		Score:   res.Score,
		Factors: res.Factors,
		Recent:  scoring.RecentAverages(entries),
	}, nil
}

func (s *Server) handleAddGoal(ctx context.Context, req *mcp.CallToolRequest, input addGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	g, err := models.GoalInput{
		GoalType:     input.GoalType,
		TargetValue:  input.TargetValue,
		CurrentValue: input.CurrentValue,
		TargetDate:   input.TargetDate,
		Description:  input.Description,
	}.ToGoal()
	if err != nil {
		return nil, goalOutput{}, err
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to create goal: %w", err)
	}

	return nil, goalOutput{
		ID:       g.ID.String()[:8],
		Status:   string(g.Status),
		Progress: g.Progress(),
		Message:  fmt.Sprintf("Added %s goal (ID: %s)", g.GoalType, g.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListGoals(ctx context.Context, req *mcp.CallToolRequest, input listGoalsInput) (*mcp.CallToolResult, any, error) {
	var status *models.GoalStatus
	if input.Status != "" {
		if !models.IsValidGoalStatus(input.Status) {
			return nil, nil, fmt.Errorf("unknown goal status: %s", input.Status)
		}
		st := models.GoalStatus(input.Status)
		status = &st
	}

	goals, err := s.repo.ListGoals(ctx, status)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list goals: %w", err)
	}

	if len(goals) == 0 {
		return nil, map[string]interface{}{"message": "No goals found."}, nil
	}

	return nil, map[string]interface{}{"goals": goalViews(goals)}, nil
}

func (s *Server) handleUpdateGoalProgress(ctx context.Context, req *mcp.CallToolRequest, input progressInput) (*mcp.CallToolResult, goalOutput, error) {
	g, err := s.repo.UpdateGoalProgress(ctx, input.ID, input.Value)
	if err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to update goal: %w", err)
	}

	msg := fmt.Sprintf("Progress %.1f%% toward %.2f", g.Progress(), g.TargetValue)
	if g.Status == models.GoalCompleted {
		msg = "Goal completed"
	}
	return nil, goalOutput{
		ID:       g.ID.String()[:8],
		Status:   string(g.Status),
		Progress: g.Progress(),
		Message:  msg,
	}, nil
}

func (s *Server) handleGenerateInsights(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, insights.HealthInsights, error) {
	res, err := s.insights.GenerateHealthInsights(ctx, input.days())
	if err != nil {
		return nil, insights.HealthInsights{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleAnalyzeTrends(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, insights.TrendAnalysis, error) {
	res, err := s.insights.AnalyzeTrends(ctx, input.days())
	if err != nil {
		return nil, insights.TrendAnalysis{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleRecommendGoals(ctx context.Context, req *mcp.CallToolRequest, input daysInput) (*mcp.CallToolResult, insights.GoalRecommendations, error) {
	res, err := s.insights.RecommendGoals(ctx, input.days())
	if err != nil {
		return nil, insights.GoalRecommendations{}, err
	}
	return nil, *res, nil
}

// goalView is a goal with its derived progress and days left.
type goalView struct {
	*models.Goal
	Progress float64 `json:"progress"`
	DaysLeft int     `json:"days_left"`
}

func goalViews(goals []*models.Goal) []goalView {
	now := models.Today()
	out := make([]goalView, len(goals))
	for i, g := range goals {
		out[i] = goalView{Goal: g, Progress: scoring.Round2(g.Progress()), DaysLeft: g.DaysLeft(now)}
	}
	return out
}
