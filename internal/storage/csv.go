// ABOUTME: Flat CSV export and import for the entry and goal tables.
// ABOUTME: Export dumps the full table; import upserts row by row.
package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
)

// EntryCSVHeader lists entry columns in export order.
var EntryCSVHeader = []string{
	"date", "weight", "bp_systolic", "bp_diastolic", "heart_rate", "sleep_hours",
	"exercise_minutes", "mood", "symptoms", "notes", "created_at", "updated_at",
}

// GoalCSVHeader lists goal columns in export order.
var GoalCSVHeader = []string{
	"id", "goal_type", "target_value", "current_value", "target_date", "description",
	"status", "created_date", "created_at", "updated_at",
}

// ImportSummary reports the outcome of a CSV import.
type ImportSummary struct {
	Imported int
	Skipped  []string // one message per rejected row
}

// WriteEntriesCSV writes every entry as CSV.
func WriteEntriesCSV(ctx context.Context, repo Repository, w io.Writer) error {
	entries, err := repo.ListEntries(ctx, 0)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(EntryCSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.DateString(),
			csvFloat(e.Weight),
			csvInt(e.BPSystolic),
			csvInt(e.BPDiastolic),
			csvInt(e.HeartRate),
			csvFloat(e.SleepHours),
			csvInt(e.ExerciseMinutes),
			string(e.Mood),
			e.Symptoms,
			e.Notes,
			e.CreatedAt.Format(time.RFC3339),
			e.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEntriesCSV upserts each CSV row by date. Rows that fail to parse or
// validate are skipped and reported; storage failures abort the import.
func ReadEntriesCSV(ctx context.Context, repo Repository, r io.Reader) (*ImportSummary, error) {
	records, cols, err := readCSV(r, "date")
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	for n, rec := range records {
		line := n + 2
		e, err := parseEntryRow(rec, cols)
		if err == nil {
			err = repo.SaveEntry(ctx, e)
		}
		if err != nil {
			if apperr.KindOf(err) == apperr.KindValidation {
				summary.Skipped = append(summary.Skipped, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			return summary, fmt.Errorf("line %d: %w", line, err)
		}
		summary.Imported++
	}
	return summary, nil
}

// WriteGoalsCSV writes every goal as CSV.
func WriteGoalsCSV(ctx context.Context, repo Repository, w io.Writer) error {
	goals, err := repo.ListGoals(ctx, nil)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(GoalCSVHeader); err != nil {
		return err
	}
	for _, g := range goals {
		row := []string{
			g.ID.String(),
			string(g.GoalType),
			strconv.FormatFloat(g.TargetValue, 'f', -1, 64),
			strconv.FormatFloat(g.CurrentValue, 'f', -1, 64),
			g.TargetDate.Format(models.DateLayout),
			g.Description,
			string(g.Status),
			g.CreatedDate.Format(models.DateLayout),
			g.CreatedAt.Format(time.RFC3339),
			g.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadGoalsCSV upserts each CSV row by goal id. Rows without an id get a new one.
func ReadGoalsCSV(ctx context.Context, repo Repository, r io.Reader) (*ImportSummary, error) {
	records, cols, err := readCSV(r, "goal_type", "target_value", "target_date", "description")
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	for n, rec := range records {
		line := n + 2
		g, err := parseGoalRow(rec, cols)
		if err == nil {
			err = repo.PutGoal(ctx, g)
		}
		if err != nil {
			if apperr.KindOf(err) == apperr.KindValidation {
				summary.Skipped = append(summary.Skipped, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			return summary, fmt.Errorf("line %d: %w", line, err)
		}
		summary.Imported++
	}
	return summary, nil
}

// csvColumns maps header names to column positions.
type csvColumns map[string]int

func (c csvColumns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func readCSV(r io.Reader, required ...string) ([][]string, csvColumns, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, apperr.Validation([]string{"CSV is empty"})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(csvColumns, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, fmt.Sprintf("missing column %q", name))
		}
	}
	if len(missing) > 0 {
		return nil, nil, apperr.Validation(missing)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV: %w", err)
	}
	return records, cols, nil
}

func parseEntryRow(rec []string, cols csvColumns) (*models.HealthEntry, error) {
	date, err := models.ParseDate(cols.get(rec, "date"))
	if err != nil {
		return nil, apperr.Validation([]string{err.Error()})
	}
	e := models.NewHealthEntry(date)

	var msgs []string
	floatField := func(name string) *float64 {
		s := cols.get(rec, name)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			msgs = append(msgs, fmt.Sprintf("%s: not a number: %q", name, s))
			return nil
		}
		return &v
	}
	intField := func(name string) *int {
		f := floatField(name)
		if f == nil {
			return nil
		}
		if math.IsInf(*f, 0) || *f != math.Trunc(*f) {
			msgs = append(msgs, fmt.Sprintf("%s: not a whole number: %q", name, cols.get(rec, name)))
			return nil
		}
		v := int(*f)
		return &v
	}

	e.Weight = floatField("weight")
	e.BPSystolic = intField("bp_systolic")
	e.BPDiastolic = intField("bp_diastolic")
	e.HeartRate = intField("heart_rate")
	e.SleepHours = floatField("sleep_hours")
	e.ExerciseMinutes = intField("exercise_minutes")
	e.Mood = models.Mood(cols.get(rec, "mood"))
	e.Symptoms = cols.get(rec, "symptoms")
	e.Notes = cols.get(rec, "notes")
	if t, err := time.Parse(time.RFC3339, cols.get(rec, "created_at")); err == nil {
		e.CreatedAt = t
	}

	if len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}
	return e, nil
}

func parseGoalRow(rec []string, cols csvColumns) (*models.Goal, error) {
	var msgs []string

	target, err := strconv.ParseFloat(cols.get(rec, "target_value"), 64)
	if err != nil {
		msgs = append(msgs, "target_value must be a number")
	}
	current := 0.0
	if s := cols.get(rec, "current_value"); s != "" {
		if current, err = strconv.ParseFloat(s, 64); err != nil {
			msgs = append(msgs, "current_value must be a number")
		}
	}
	targetDate, err := models.ParseDate(cols.get(rec, "target_date"))
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	if len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	g := models.NewGoal(models.GoalType(cols.get(rec, "goal_type")), target, targetDate, cols.get(rec, "description"))
	g.CurrentValue = current
	if id, err := uuid.Parse(cols.get(rec, "id")); err == nil {
		g.ID = id
	}
	if s := cols.get(rec, "status"); s != "" {
		g.Status = models.GoalStatus(s)
	}
	if d, err := models.ParseDate(cols.get(rec, "created_date")); err == nil {
		g.CreatedDate = d
	}
	if t, err := time.Parse(time.RFC3339, cols.get(rec, "created_at")); err == nil {
		g.CreatedAt = t
	}
	return g, nil
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func csvInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
