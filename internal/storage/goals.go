// ABOUTME: Goal CRUD operations for SQLite storage.
// ABOUTME: Progress and status changes run read-modify-write in one transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
)

const goalColumns = `id, goal_type, target_value, current_value, target_date, description,
	status, created_date, created_at, updated_at`

// CreateGoal stores a new goal.
func (d *DB) CreateGoal(ctx context.Context, g *models.Goal) error {
	if err := validateGoal(g); err != nil {
		return err
	}
	query := `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := d.db.ExecContext(ctx, query, goalArgs(g)...); err != nil {
		return apperr.Database(err, "create goal")
	}
	return nil
}

// PutGoal inserts g or replaces the goal with the same id.
func (d *DB) PutGoal(ctx context.Context, g *models.Goal) error {
	if err := validateGoal(g); err != nil {
		return err
	}
	query := `
		INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			goal_type = excluded.goal_type,
			target_value = excluded.target_value,
			current_value = excluded.current_value,
			target_date = excluded.target_date,
			description = excluded.description,
			status = excluded.status,
			created_date = excluded.created_date,
			updated_at = excluded.updated_at
	`
	if _, err := d.db.ExecContext(ctx, query, goalArgs(g)...); err != nil {
		return apperr.Database(err, "put goal")
	}
	return nil
}

// GetGoal retrieves a goal by ID or ID prefix.
func (d *DB) GetGoal(ctx context.Context, idOrPrefix string) (*models.Goal, error) {
	id, err := d.resolveGoalID(ctx, d.db, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.getGoal(ctx, d.db, id)
}

// ListGoals returns goals, newest first, optionally filtered by status.
func (d *DB) ListGoals(ctx context.Context, status *models.GoalStatus) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Database(err, "list goals")
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, apperr.Database(err, "scan goal")
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(err, "list goals")
	}
	return goals, nil
}

// UpdateGoalProgress sets the current value and completes the goal once
// the target is reached.
func (d *DB) UpdateGoalProgress(ctx context.Context, idOrPrefix string, value float64) (*models.Goal, error) {
	return d.mutateGoal(ctx, idOrPrefix, func(g *models.Goal) error {
		g.ApplyProgress(value)
		return nil
	})
}

// SetGoalStatus pauses, resumes or completes a goal manually.
func (d *DB) SetGoalStatus(ctx context.Context, idOrPrefix string, status models.GoalStatus) (*models.Goal, error) {
	return d.mutateGoal(ctx, idOrPrefix, func(g *models.Goal) error {
		if err := g.SetStatus(status); err != nil {
			return apperr.Validation([]string{err.Error()})
		}
		return nil
	})
}

// DeleteGoal removes a goal by ID or prefix.
func (d *DB) DeleteGoal(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveGoalID(ctx, d.db, idOrPrefix)
	if err != nil {
		return err
	}
	result, err := d.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return apperr.Database(err, "delete goal")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Database(err, "delete goal")
	}
	if affected == 0 {
		return apperr.NotFound("goal " + idOrPrefix)
	}
	return nil
}

func (d *DB) mutateGoal(ctx context.Context, idOrPrefix string, fn func(*models.Goal) error) (*models.Goal, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Database(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	id, err := d.resolveGoalID(ctx, tx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	g, err := d.getGoal(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE goals SET current_value = ?, status = ?, updated_at = ? WHERE id = ?`,
		g.CurrentValue, string(g.Status), g.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, apperr.Database(err, "update goal")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Database(err, "commit goal update")
	}
	return g, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (d *DB) getGoal(ctx context.Context, q querier, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`
	g, err := scanGoal(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("goal " + id)
	}
	if err != nil {
		return nil, apperr.Database(err, "get goal")
	}
	return g, nil
}

// resolveGoalID finds the full ID from a prefix.
func (d *DB) resolveGoalID(ctx context.Context, q querier, idOrPrefix string) (string, error) {
	// If it looks like a full UUID, use it directly
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", apperr.NotFound("goal with empty id")
	}

	// substr keeps % and _ in the prefix literal.
	rows, err := q.QueryContext(ctx, `SELECT id FROM goals WHERE substr(id, 1, ?) = ?`, len(idOrPrefix), idOrPrefix)
	if err != nil {
		return "", apperr.Database(err, "resolve goal ID")
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", apperr.Database(err, "scan goal ID")
		}
		matches = append(matches, id)
	}
	return pickMatch(idOrPrefix, matches)
}

func pickMatch(prefix string, matches []string) (string, error) {
	if len(matches) == 0 {
		return "", apperr.NotFound("goal " + prefix)
	}
	if len(matches) > 1 {
		return "", apperr.Validation([]string{fmt.Sprintf("ambiguous prefix %s: matches multiple goals", prefix)})
	}
	return matches[0], nil
}

func validateGoal(g *models.Goal) error {
	var msgs []string
	if !models.IsValidGoalType(string(g.GoalType)) {
		msgs = append(msgs, fmt.Sprintf("unknown goal type: %s", g.GoalType))
	}
	if !models.IsValidGoalStatus(string(g.Status)) {
		msgs = append(msgs, fmt.Sprintf("unknown goal status: %s", g.Status))
	}
	if strings.TrimSpace(g.Description) == "" {
		msgs = append(msgs, "Goal description is required")
	}
	if len(msgs) > 0 {
		return apperr.Validation(msgs)
	}
	return nil
}

func goalArgs(g *models.Goal) []interface{} {
	return []interface{}{
		g.ID.String(),
		string(g.GoalType),
		g.TargetValue,
		g.CurrentValue,
		g.TargetDate.Format(models.DateLayout),
		g.Description,
		string(g.Status),
		g.CreatedDate.Format(models.DateLayout),
		g.CreatedAt.Format(time.RFC3339),
		g.UpdatedAt.Format(time.RFC3339),
	}
}

func scanGoal(row scanner) (*models.Goal, error) {
	var g models.Goal
	var idStr, goalType, targetDate, status, createdDate, createdAt, updatedAt string

	err := row.Scan(&idStr, &goalType, &g.TargetValue, &g.CurrentValue, &targetDate,
		&g.Description, &status, &createdDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	g.ID, _ = uuid.Parse(idStr)
	g.GoalType = models.GoalType(goalType)
	g.TargetDate, _ = time.Parse(models.DateLayout, targetDate)
	g.Status = models.GoalStatus(status)
	g.CreatedDate, _ = time.Parse(models.DateLayout, createdDate)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &g, nil
}
