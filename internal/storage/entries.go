// ABOUTME: HealthEntry CRUD operations for SQLite storage.
// ABOUTME: Saves are upserts keyed on the entry date.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
)

const entryColumns = `id, date, weight, bp_systolic, bp_diastolic, heart_rate, sleep_hours,
	exercise_minutes, mood, symptoms, notes, created_at, updated_at`

// SaveEntry validates e and stores it, replacing any entry on the same date.
// An existing row keeps its id and created_at; e is updated to match.
func (d *DB) SaveEntry(ctx context.Context, e *models.HealthEntry) error {
	if msgs := e.Validate(); len(msgs) > 0 {
		return apperr.Validation(msgs)
	}

	now := time.Now().UTC()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.Date = models.Day(e.Date)
	e.UpdatedAt = now

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Database(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var idStr, createdAt string
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM health_entries WHERE date = ?`, e.DateString(),
	).Scan(&idStr, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		var taken int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM health_entries WHERE id = ?`, e.ID.String(),
		).Scan(&taken); err != nil {
			return apperr.Database(err, "save entry")
		}
		if taken > 0 {
			e.ID = uuid.New()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO health_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			append([]interface{}{e.ID.String(), e.DateString()}, entryValues(e)...)...)
	case err != nil:
		return apperr.Database(err, "save entry")
	default:
		e.ID, _ = uuid.Parse(idStr)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		_, err = tx.ExecContext(ctx, `
			UPDATE health_entries SET
				weight = ?, bp_systolic = ?, bp_diastolic = ?, heart_rate = ?,
				sleep_hours = ?, exercise_minutes = ?, mood = ?, symptoms = ?, notes = ?,
				created_at = ?, updated_at = ?
			WHERE id = ?`,
			append(entryValues(e), e.ID.String())...)
	}
	if err != nil {
		return apperr.Database(err, "save entry")
	}

	if err := tx.Commit(); err != nil {
		return apperr.Database(err, "commit entry")
	}
	return nil
}

// entryValues returns the mutable columns in entryColumns order, after date.
func entryValues(e *models.HealthEntry) []interface{} {
	return []interface{}{
		nullFloat(e.Weight),
		nullInt(e.BPSystolic),
		nullInt(e.BPDiastolic),
		nullInt(e.HeartRate),
		nullFloat(e.SleepHours),
		nullInt(e.ExerciseMinutes),
		nullString(string(e.Mood)),
		nullString(e.Symptoms),
		nullString(e.Notes),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	}
}

// GetEntry retrieves the entry for a calendar date.
func (d *DB) GetEntry(ctx context.Context, date time.Time) (*models.HealthEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM health_entries WHERE date = ?`
	e, err := scanEntry(d.db.QueryRowContext(ctx, query, models.Day(date).Format(models.DateLayout)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("entry for " + date.Format(models.DateLayout))
	}
	if err != nil {
		return nil, apperr.Database(err, "get entry")
	}
	return e, nil
}

// LatestEntry returns the most recently dated entry.
func (d *DB) LatestEntry(ctx context.Context) (*models.HealthEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM health_entries ORDER BY date DESC LIMIT 1`
	e, err := scanEntry(d.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no entries logged")
	}
	if err != nil {
		return nil, apperr.Database(err, "latest entry")
	}
	return e, nil
}

// ListEntries returns entries within the lookback window, oldest first.
func (d *DB) ListEntries(ctx context.Context, days int) ([]*models.HealthEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM health_entries`
	var args []interface{}
	if days > 0 {
		query += ` WHERE date >= ?`
		args = append(args, cutoff(days).Format(models.DateLayout))
	}
	query += ` ORDER BY date ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Database(err, "list entries")
	}
	defer rows.Close()

	var entries []*models.HealthEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperr.Database(err, "scan entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(err, "list entries")
	}
	return entries, nil
}

// DeleteEntry removes the entry for a calendar date.
func (d *DB) DeleteEntry(ctx context.Context, date time.Time) error {
	day := models.Day(date).Format(models.DateLayout)
	result, err := d.db.ExecContext(ctx, "DELETE FROM health_entries WHERE date = ?", day)
	if err != nil {
		return apperr.Database(err, "delete entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Database(err, "delete entry")
	}
	if affected == 0 {
		return apperr.NotFound("entry for " + day)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*models.HealthEntry, error) {
	var e models.HealthEntry
	var idStr, date, createdAt, updatedAt string
	var weight, sleep sql.NullFloat64
	var sys, dia, hr, exercise sql.NullInt64
	var mood, symptoms, notes sql.NullString

	err := row.Scan(&idStr, &date, &weight, &sys, &dia, &hr, &sleep, &exercise,
		&mood, &symptoms, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	e.Date, _ = time.Parse(models.DateLayout, date)
	e.Weight = floatPtr(weight)
	e.BPSystolic = intPtr(sys)
	e.BPDiastolic = intPtr(dia)
	e.HeartRate = intPtr(hr)
	e.SleepHours = floatPtr(sleep)
	e.ExerciseMinutes = intPtr(exercise)
	e.Mood = models.Mood(mood.String)
	e.Symptoms = symptoms.String
	e.Notes = notes.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &e, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
