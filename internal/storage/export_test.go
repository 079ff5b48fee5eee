// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats plus JSON restore.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthdash/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExportData(t *testing.T, db *DB) *models.Goal {
	t.Helper()
	ctx := context.Background()

	e := models.NewHealthEntry(models.Today()).
		WithWeight(82.5).
		WithBloodPressure(121, 79).
		WithMood(models.MoodAverage).
		WithNotes("test note")
	if err := db.SaveEntry(ctx, e); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	g := models.NewGoal(models.GoalWeightLoss, 78, models.Today().AddDate(0, 3, 0), "get to 78kg")
	if err := db.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	return g
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	data, err := ExportJSON(context.Background(), db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.Tool != "healthdash" {
		t.Errorf("Expected tool healthdash, got %s", export.Tool)
	}
	if len(export.Entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(export.Entries))
	}
	if len(export.Goals) != 1 {
		t.Errorf("Expected 1 goal, got %d", len(export.Goals))
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	g := seedExportData(t, db)

	data, err := ExportYAML(context.Background(), db)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}

	if yamlData["tool"] != "healthdash" {
		t.Errorf("Expected tool healthdash, got %v", yamlData["tool"])
	}

	entries, ok := yamlData["entries"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected entries to be a map")
	}
	today, ok := entries[models.Today().Format(models.DateLayout)].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected today's entry keyed by date")
	}
	if today["blood_pressure"] != "121/79" {
		t.Errorf("Expected blood_pressure 121/79, got %v", today["blood_pressure"])
	}

	if !strings.Contains(string(data), g.ID.String()[:8]) {
		t.Error("Expected short goal id in YAML")
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	md, err := ExportMarkdown(context.Background(), db, nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{"# Health Export", "## Entries", "82.5 kg", "121/79", "## Goals", "get to 78kg"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestExportMarkdownWithSince(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	db.SaveEntry(ctx, models.NewHealthEntry(models.Today().AddDate(0, 0, -30)).WithWeight(80))
	db.SaveEntry(ctx, models.NewHealthEntry(models.Today()).WithWeight(82.5))

	since := time.Now().AddDate(0, 0, -7)
	md, err := ExportMarkdown(ctx, db, &since)
	if err != nil {
		t.Fatalf("ExportMarkdown with since failed: %v", err)
	}

	if !strings.Contains(md, "82.5 kg") {
		t.Error("Expected recent entry")
	}
	if strings.Contains(md, "80.0 kg") {
		t.Error("Should not contain old entry")
	}
}

func TestImportJSON(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	jsonData := `{
		"version": "1.0",
		"exported_at": "2026-01-31T12:00:00Z",
		"tool": "healthdash",
		"entries": [
			{
				"id": "11111111-1111-1111-1111-111111111111",
				"date": "2026-01-31T00:00:00Z",
				"weight": 82.5,
				"heart_rate": 66,
				"mood": "Good",
				"created_at": "2026-01-31T08:00:00Z",
				"updated_at": "2026-01-31T08:00:00Z"
			}
		],
		"goals": [
			{
				"id": "22222222-2222-2222-2222-222222222222",
				"goal_type": "sleep",
				"target_value": 8,
				"current_value": 6.5,
				"target_date": "2026-03-01T00:00:00Z",
				"description": "sleep 8 hours",
				"status": "active",
				"created_date": "2026-01-31T00:00:00Z",
				"created_at": "2026-01-31T08:00:00Z",
				"updated_at": "2026-01-31T08:00:00Z"
			}
		],
		"insights": [
			{
				"id": "33333333-3333-3333-3333-333333333333",
				"insight_type": "health_insights",
				"content": "{}",
				"date_generated": "2026-01-31T00:00:00Z",
				"created_at": "2026-01-31T08:00:00Z"
			}
		]
	}`

	if err := ImportJSON(ctx, db, []byte(jsonData)); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	day, _ := models.ParseDate("2026-01-31")
	e, err := db.GetEntry(ctx, day)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if e.ID.String() != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("Expected imported id, got %s", e.ID)
	}
	if e.HeartRate == nil || *e.HeartRate != 66 {
		t.Errorf("Expected heart rate 66, got %v", e.HeartRate)
	}

	g, err := db.GetGoal(ctx, "22222222")
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if g.CurrentValue != 6.5 {
		t.Errorf("Expected current value 6.5, got %v", g.CurrentValue)
	}

	// importing twice must not duplicate anything
	if err := ImportJSON(ctx, db, []byte(jsonData)); err != nil {
		t.Fatalf("second ImportJSON failed: %v", err)
	}
	data, _ := GetAllData(ctx, db)
	if len(data.Entries) != 1 || len(data.Goals) != 1 || len(data.Insights) != 1 {
		t.Errorf("re-import duplicated rows: %d entries, %d goals, %d insights",
			len(data.Entries), len(data.Goals), len(data.Insights))
	}
}

func TestImportJSONRejectsInvalidEntry(t *testing.T) {
	db := setupTestDB(t)

	jsonData := `{"entries": [{"date": "2026-01-31T00:00:00Z", "heart_rate": 400}]}`
	if err := ImportJSON(context.Background(), db, []byte(jsonData)); err == nil {
		t.Error("Expected error importing out-of-range heart rate")
	}
}
