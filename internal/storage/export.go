// ABOUTME: Export and import functionality for health data.
// ABOUTME: Supports JSON backup/restore plus YAML and Markdown exports for any Repository.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthdash/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for health data.
type ExportData struct {
	Version    string                `json:"version" yaml:"version"`
	ExportedAt time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool       string                `json:"tool" yaml:"tool"`
	Entries    []*models.HealthEntry `json:"entries" yaml:"entries"`
	Goals      []*models.Goal        `json:"goals" yaml:"goals"`
	Insights   []*models.Insight     `json:"insights" yaml:"insights"`
}

// GetAllData retrieves all data for export.
func GetAllData(ctx context.Context, repo Repository) (*ExportData, error) {
	entries, err := repo.ListEntries(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	goals, err := repo.ListGoals(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	insights, err := repo.ListInsights(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "healthdash",
		Entries:    entries,
		Goals:      goals,
		Insights:   insights,
	}, nil
}

// ImportData writes an export into repo. Entries upsert by date and goals
// by id, so importing the same file twice is harmless.
func ImportData(ctx context.Context, repo Repository, data *ExportData) error {
	for _, e := range data.Entries {
		if err := repo.SaveEntry(ctx, e); err != nil {
			return fmt.Errorf("import entry %s: %w", e.DateString(), err)
		}
	}

	for _, g := range data.Goals {
		if err := repo.PutGoal(ctx, g); err != nil {
			return fmt.Errorf("import goal %s: %w", g.ID, err)
		}
	}

	for _, i := range data.Insights {
		if err := repo.SaveInsight(ctx, i); err != nil {
			return fmt.Errorf("import insight %s: %w", i.ID, err)
		}
	}

	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(ctx context.Context, repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(ctx, repo, &data)
}

// ExportYAML exports all data as YAML with entries keyed by date.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string               `yaml:"version"`
		ExportedAt string               `yaml:"exported_at"`
		Tool       string               `yaml:"tool"`
		Entries    map[string]yamlEntry `yaml:"entries"`
		Goals      []yamlGoal           `yaml:"goals"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Entries:    make(map[string]yamlEntry, len(data.Entries)),
		Goals:      make([]yamlGoal, 0, len(data.Goals)),
	}

	for _, e := range data.Entries {
		ye := yamlEntry{
			Weight:          e.Weight,
			HeartRate:       e.HeartRate,
			SleepHours:      e.SleepHours,
			ExerciseMinutes: e.ExerciseMinutes,
			Mood:            string(e.Mood),
			Symptoms:        e.Symptoms,
			Notes:           e.Notes,
		}
		if e.BPSystolic != nil && e.BPDiastolic != nil {
			ye.BloodPressure = fmt.Sprintf("%d/%d", *e.BPSystolic, *e.BPDiastolic)
		}
		yamlData.Entries[e.DateString()] = ye
	}

	for _, g := range data.Goals {
		yamlData.Goals = append(yamlData.Goals, yamlGoal{
			ID:          g.ID.String()[:8],
			Type:        string(g.GoalType),
			Description: g.Description,
			Target:      g.TargetValue,
			Current:     g.CurrentValue,
			TargetDate:  g.TargetDate.Format(models.DateLayout),
			Status:      string(g.Status),
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlEntry struct {
	Weight          *float64 `yaml:"weight,omitempty"`
	BloodPressure   string   `yaml:"blood_pressure,omitempty"`
	HeartRate       *int     `yaml:"heart_rate,omitempty"`
	SleepHours      *float64 `yaml:"sleep_hours,omitempty"`
	ExerciseMinutes *int     `yaml:"exercise_minutes,omitempty"`
	Mood            string   `yaml:"mood,omitempty"`
	Symptoms        string   `yaml:"symptoms,omitempty"`
	Notes           string   `yaml:"notes,omitempty"`
}

type yamlGoal struct {
	ID          string  `yaml:"id"`
	Type        string  `yaml:"type"`
	Description string  `yaml:"description"`
	Target      float64 `yaml:"target"`
	Current     float64 `yaml:"current"`
	TargetDate  string  `yaml:"target_date"`
	Status      string  `yaml:"status"`
}

// ExportMarkdown exports entries and goals as Markdown tables.
func ExportMarkdown(ctx context.Context, repo Repository, since *time.Time) (string, error) {
	entries, err := repo.ListEntries(ctx, 0)
	if err != nil {
		return "", err
	}
	if since != nil {
		var filtered []*models.HealthEntry
		for _, e := range entries {
			if !e.Date.Before(models.Day(*since)) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	goals, err := repo.ListGoals(ctx, nil)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Health Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Entries\n\n")
	sb.WriteString("| Date | Weight | BP | HR | Sleep | Exercise | Mood | Notes |\n")
	sb.WriteString("|------|--------|----|----|-------|----------|------|-------|\n")
	for _, e := range entries {
		bp := ""
		if e.BPSystolic != nil && e.BPDiastolic != nil {
			bp = fmt.Sprintf("%d/%d", *e.BPSystolic, *e.BPDiastolic)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			e.DateString(),
			fmtFloat(e.Weight, "%.1f kg"),
			bp,
			fmtInt(e.HeartRate, "%d bpm"),
			fmtFloat(e.SleepHours, "%.1f h"),
			fmtInt(e.ExerciseMinutes, "%d min"),
			e.Mood,
			e.Notes))
	}

	if len(goals) > 0 {
		sb.WriteString("\n## Goals\n\n")
		sb.WriteString("| Type | Description | Progress | Target Date | Status |\n")
		sb.WriteString("|------|-------------|----------|-------------|--------|\n")
		for _, g := range goals {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f / %.1f | %s | %s |\n",
				g.GoalType, g.Description, g.CurrentValue, g.TargetValue,
				g.TargetDate.Format(models.DateLayout), g.Status))
		}
	}

	return sb.String(), nil
}

func fmtFloat(v *float64, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}

func fmtInt(v *int, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}
