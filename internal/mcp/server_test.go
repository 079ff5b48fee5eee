// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temp SQLite store.
package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/healthdash/internal/insights"
	"github.com/harperreed/healthdash/internal/logger"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "healthdash-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := storage.Open(filepath.Join(tmpDir, "healthdash.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

type cannedCompleter struct {
	response string
	err      error
	calls    int
}

func (c *cannedCompleter) Name() string { return "canned" }

func (c *cannedCompleter) Complete(context.Context, insights.Request) (string, error) {
	c.calls++
	return c.response, c.err
}

func newTestServer(t *testing.T, c insights.Completer) (*Server, *storage.DB) {
	t.Helper()
	db := setupTestDB(t)
	log := logger.Nop()
	server, err := NewServer(db, insights.NewService(c, db, log), log, "test")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func ptr[T any](v T) *T { return &v }

func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t, nil)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil || server.insights == nil {
		t.Error("Expected dependencies to be set")
	}
}

func TestHandleLogEntry(t *testing.T) {
	server, db := newTestServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     logEntryInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "weight and blood pressure",
			input: logEntryInput{Date: "2026-05-01", Weight: ptr(82.5), BPSystolic: ptr(120), BPDiastolic: ptr(80)},
		},
		{
			name:  "defaults to today",
			input: logEntryInput{SleepHours: ptr(7.5), Mood: "Good"},
		},
		{
			name:      "out of range heart rate",
			input:     logEntryInput{Date: "2026-05-02", HeartRate: ptr(250)},
			wantErr:   true,
			errSubstr: "Heart rate must be between 30 and 220 bpm",
		},
		{
			name:      "unknown mood",
			input:     logEntryInput{Date: "2026-05-02", Mood: "Meh"},
			wantErr:   true,
			errSubstr: "Mood must be one of",
		},
		{
			name:      "bad date",
			input:     logEntryInput{Date: "May 2"},
			wantErr:   true,
			errSubstr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleLogEntry(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(output.ID) != 8 || output.Message == "" {
				t.Errorf("unexpected output: %+v", output)
			}
		})
	}

	entries, _ := db.ListEntries(ctx, 0)
	if len(entries) != 2 {
		t.Errorf("expected 2 saved entries, got %d", len(entries))
	}
}

func TestHandleLogEntryReplacesDay(t *testing.T) {
	server, db := newTestServer(t, nil)
	ctx := context.Background()

	_, first, _ := server.handleLogEntry(ctx, &mcp.CallToolRequest{}, logEntryInput{Date: "2026-05-01", Weight: ptr(82.0)})
	_, second, err := server.handleLogEntry(ctx, &mcp.CallToolRequest{}, logEntryInput{Date: "2026-05-01", SleepHours: ptr(8.0)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same entry id, got %s and %s", first.ID, second.ID)
	}

	day, _ := models.ParseDate("2026-05-01")
	e, err := db.GetEntry(ctx, day)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if e.Weight != nil || e.SleepHours == nil {
		t.Errorf("expected weight replaced by sleep, got %+v", e)
	}
}

func TestHandleListAndGetEntries(t *testing.T) {
	server, db := newTestServer(t, nil)
	ctx := context.Background()

	_, out, err := server.handleListEntries(ctx, &mcp.CallToolRequest{}, daysInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m, ok := out.(map[string]interface{}); !ok || m["message"] != "No entries found." {
		t.Errorf("expected empty message, got %v", out)
	}

	db.SaveEntry(ctx, models.NewHealthEntry(models.Today()).WithWeight(80))
	db.SaveEntry(ctx, models.NewHealthEntry(models.Today().AddDate(0, 0, -90)).WithWeight(84))

	_, out, _ = server.handleListEntries(ctx, &mcp.CallToolRequest{}, daysInput{})
	if m := out.(map[string]interface{}); m["count"] != 1 {
		t.Errorf("default window count = %v, want 1", m["count"])
	}
	_, out, _ = server.handleListEntries(ctx, &mcp.CallToolRequest{}, daysInput{Days: -1})
	if m := out.(map[string]interface{}); m["count"] != 2 {
		t.Errorf("all entries count = %v, want 2", m["count"])
	}

	_, got, err := server.handleGetEntry(ctx, &mcp.CallToolRequest{}, dateInput{Date: models.Today().Format(models.DateLayout)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if e, ok := got.(*models.HealthEntry); !ok || *e.Weight != 80 {
		t.Errorf("unexpected entry: %v", got)
	}

	if _, _, err := server.handleGetEntry(ctx, &mcp.CallToolRequest{}, dateInput{Date: "2020-01-01"}); err == nil {
		t.Error("Expected not found error")
	}
}

func TestHandleDeleteEntry(t *testing.T) {
	server, db := newTestServer(t, nil)
	ctx := context.Background()
	db.SaveEntry(ctx, models.NewHealthEntry(models.Today()).WithWeight(80))

	today := models.Today().Format(models.DateLayout)
	if _, _, err := server.handleDeleteEntry(ctx, &mcp.CallToolRequest{}, dateInput{Date: today}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, _, err := server.handleDeleteEntry(ctx, &mcp.CallToolRequest{}, dateInput{Date: today}); err == nil {
		t.Error("Expected error deleting missing entry")
	}
}

func TestHandleHealthScore(t *testing.T) {
	server, db := newTestServer(t, nil)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		db.SaveEntry(ctx, models.NewHealthEntry(models.Today().AddDate(0, 0, -i)).
			WithHeartRate(70).WithSleep(8).WithExercise(25))
	}

	_, out, err := server.handleHealthScore(ctx, &mcp.CallToolRequest{}, scoreInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// normal HR 20 + adequate sleep 20 + 175 min exercise 15
	if out.Score != 55 {
		t.Errorf("Score = %d, want 55 (factors %v)", out.Score, out.Factors)
	}
	if out.Recent.WeeklyExercise == nil || *out.Recent.WeeklyExercise != 175 {
		t.Errorf("recent weekly exercise = %v", out.Recent.WeeklyExercise)
	}
}

func TestHandleGoals(t *testing.T) {
	server, _ := newTestServer(t, nil)
	ctx := context.Background()

	_, added, err := server.handleAddGoal(ctx, &mcp.CallToolRequest{}, addGoalInput{
		GoalType:    "sleep",
		TargetValue: 8,
		TargetDate:  models.Today().AddDate(0, 0, 30).Format(models.DateLayout),
		Description: "Sleep 8 hours",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if added.Status != "active" {
		t.Errorf("Status = %s", added.Status)
	}

	if _, _, err := server.handleAddGoal(ctx, &mcp.CallToolRequest{}, addGoalInput{GoalType: "nap", TargetDate: "2026-12-31"}); err == nil {
		t.Error("Expected error for unknown goal type")
	}

	_, progress, err := server.handleUpdateGoalProgress(ctx, &mcp.CallToolRequest{}, progressInput{ID: added.ID, Value: 6})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if progress.Status != "active" || progress.Progress != 75 {
		t.Errorf("unexpected progress: %+v", progress)
	}

	_, progress, _ = server.handleUpdateGoalProgress(ctx, &mcp.CallToolRequest{}, progressInput{ID: added.ID, Value: 8.5})
	if progress.Status != "completed" || progress.Message != "Goal completed" {
		t.Errorf("expected completion, got %+v", progress)
	}

	_, out, err := server.handleListGoals(ctx, &mcp.CallToolRequest{}, listGoalsInput{Status: "completed"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	views := out.(map[string]interface{})["goals"].([]goalView)
	if len(views) != 1 || views[0].DaysLeft != 30 {
		t.Errorf("unexpected goals: %+v", views)
	}

	if _, _, err := server.handleListGoals(ctx, &mcp.CallToolRequest{}, listGoalsInput{Status: "archived"}); err == nil {
		t.Error("Expected error for unknown status")
	}
	if _, _, err := server.handleUpdateGoalProgress(ctx, &mcp.CallToolRequest{}, progressInput{ID: "ffffffff", Value: 1}); err == nil {
		t.Error("Expected error for unknown goal")
	}
}

func TestInsightTools(t *testing.T) {
	canned := &cannedCompleter{response: `{"overall_health": "Good", "risk_factors": "not a list"}`}
	server, db := newTestServer(t, canned)
	ctx := context.Background()

	_, res, err := server.handleGenerateInsights(ctx, &mcp.CallToolRequest{}, daysInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.OverallHealth != "No data available for analysis" || canned.calls != 0 {
		t.Errorf("expected no-data result without a call, got %+v (%d calls)", res, canned.calls)
	}

	db.SaveEntry(ctx, models.NewHealthEntry(models.Today()).WithWeight(80))
	_, res, _ = server.handleGenerateInsights(ctx, &mcp.CallToolRequest{}, daysInput{})
	if res.OverallHealth != "Good" || len(res.RiskFactors) != 0 {
		t.Errorf("unexpected insights: %+v", res)
	}

	canned.err = errors.New("unreachable")
	_, trends, err := server.handleAnalyzeTrends(ctx, &mcp.CallToolRequest{}, daysInput{})
	if err != nil || trends.Available {
		t.Errorf("expected fallback trends, got %+v, %v", trends, err)
	}
	_, goals, err := server.handleRecommendGoals(ctx, &mcp.CallToolRequest{}, daysInput{})
	if err != nil || len(goals.RecommendedGoals) != 0 {
		t.Errorf("expected empty recommendations, got %+v, %v", goals, err)
	}
}

func TestResources(t *testing.T) {
	server, db := newTestServer(t, nil)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		db.SaveEntry(ctx, models.NewHealthEntry(models.Today().AddDate(0, 0, -i)).WithWeight(80+float64(i)/10))
	}
	db.CreateGoal(ctx, models.NewGoal(models.GoalExercise, 150, models.Today().AddDate(0, 1, 0), "Move more"))

	tests := []struct {
		uri     string
		handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
		want    string
	}{
		{"health://recent", server.handleRecentResource, `"count": 7`},
		{"health://summary", server.handleSummaryResource, `"total_entries": 9`},
		{"health://goals", server.handleGoalsResource, `"description": "Move more"`},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			result, err := tt.handler(ctx, &mcp.ReadResourceRequest{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(result.Contents) == 0 {
				t.Fatal("Expected non-empty contents")
			}
			if result.Contents[0].URI != tt.uri {
				t.Errorf("URI = %s, want %s", result.Contents[0].URI, tt.uri)
			}
			if !strings.Contains(result.Contents[0].Text, tt.want) {
				t.Errorf("expected %s in:\n%s", tt.want, result.Contents[0].Text)
			}
		})
	}
}
