// ABOUTME: PostgreSQL Repository implementation using GORM.
// ABOUTME: Selected when DATABASE_URL uses a postgres:// scheme.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresDB stores health data in PostgreSQL.
type PostgresDB struct {
	db *gorm.DB
}

var _ Repository = (*PostgresDB)(nil)

type entryRow struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Date            time.Time `gorm:"type:date;uniqueIndex;not null"`
	Weight          *float64
	BPSystolic      *int `gorm:"column:bp_systolic"`
	BPDiastolic     *int `gorm:"column:bp_diastolic"`
	HeartRate       *int
	SleepHours      *float64
	ExerciseMinutes *int
	Mood            *string `gorm:"size:50"`
	Symptoms        *string `gorm:"type:text"`
	Notes           *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (entryRow) TableName() string { return "health_entries" }

type goalRow struct {
	ID           string    `gorm:"primaryKey;size:36"`
	GoalType     string    `gorm:"size:50;not null"`
	TargetValue  float64   `gorm:"not null"`
	CurrentValue float64   `gorm:"not null;default:0"`
	TargetDate   time.Time `gorm:"type:date;not null"`
	Description  string    `gorm:"type:text;not null"`
	Status       string    `gorm:"size:20;not null;default:active;index"`
	CreatedDate  time.Time `gorm:"type:date;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (goalRow) TableName() string { return "goals" }

// userRow reserves the users table; nothing reads or writes it yet.
type userRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Username  string `gorm:"size:50;uniqueIndex;not null"`
	Email     string `gorm:"size:100;uniqueIndex;not null"`
	FullName  *string
	IsActive  bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type insightRow struct {
	ID              string `gorm:"primaryKey;size:36"`
	InsightType     string `gorm:"size:50;not null"`
	Content         string `gorm:"type:text;not null"`
	ConfidenceScore *float64
	DateGenerated   time.Time  `gorm:"type:date;not null;index"`
	DataPeriodStart *time.Time `gorm:"type:date"`
	DataPeriodEnd   *time.Time `gorm:"type:date"`
	CreatedAt       time.Time
}

func (insightRow) TableName() string { return "health_insights" }

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(dsn string) (*PostgresDB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entryRow{}, &goalRow{}, &userRow{}, &insightRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// Close closes the underlying connection pool.
func (p *PostgresDB) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveEntry validates e and upserts it by date.
func (p *PostgresDB) SaveEntry(ctx context.Context, e *models.HealthEntry) error {
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

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entryRow
		err := tx.Where("date = ?", e.Date).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			var taken int64
			if err := tx.Model(&entryRow{}).Where("id = ?", e.ID.String()).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				e.ID = uuid.New()
			}
		case err != nil:
			return err
		default:
			e.ID, _ = uuid.Parse(existing.ID)
			e.CreatedAt = existing.CreatedAt
		}
		row := toEntryRow(e)
		return tx.Save(&row).Error
	})
	if err != nil {
		return apperr.Database(err, "save entry")
	}
	return nil
}

// GetEntry retrieves the entry for a calendar date.
func (p *PostgresDB) GetEntry(ctx context.Context, date time.Time) (*models.HealthEntry, error) {
	var row entryRow
	err := p.db.WithContext(ctx).Where("date = ?", models.Day(date)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("entry for " + date.Format(models.DateLayout))
	}
	if err != nil {
		return nil, apperr.Database(err, "get entry")
	}
	return fromEntryRow(row), nil
}

// LatestEntry returns the most recently dated entry.
func (p *PostgresDB) LatestEntry(ctx context.Context) (*models.HealthEntry, error) {
	var row entryRow
	err := p.db.WithContext(ctx).Order("date DESC").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no entries logged")
	}
	if err != nil {
		return nil, apperr.Database(err, "latest entry")
	}
	return fromEntryRow(row), nil
}

// ListEntries returns entries within the lookback window, oldest first.
func (p *PostgresDB) ListEntries(ctx context.Context, days int) ([]*models.HealthEntry, error) {
	q := p.db.WithContext(ctx).Order("date ASC")
	if days > 0 {
		q = q.Where("date >= ?", cutoff(days))
	}

	var rows []entryRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Database(err, "list entries")
	}

	entries := make([]*models.HealthEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, fromEntryRow(r))
	}
	return entries, nil
}

// DeleteEntry removes the entry for a calendar date.
func (p *PostgresDB) DeleteEntry(ctx context.Context, date time.Time) error {
	res := p.db.WithContext(ctx).Where("date = ?", models.Day(date)).Delete(&entryRow{})
	if res.Error != nil {
		return apperr.Database(res.Error, "delete entry")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("entry for " + date.Format(models.DateLayout))
	}
	return nil
}

// CreateGoal stores a new goal.
func (p *PostgresDB) CreateGoal(ctx context.Context, g *models.Goal) error {
	if err := validateGoal(g); err != nil {
		return err
	}
	row := toGoalRow(g)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperr.Database(err, "create goal")
	}
	return nil
}

// PutGoal inserts g or replaces the goal with the same id.
func (p *PostgresDB) PutGoal(ctx context.Context, g *models.Goal) error {
	if err := validateGoal(g); err != nil {
		return err
	}
	row := toGoalRow(g)
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"goal_type", "target_value", "current_value", "target_date",
			"description", "status", "created_date", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return apperr.Database(err, "put goal")
	}
	return nil
}

// GetGoal retrieves a goal by ID or ID prefix.
func (p *PostgresDB) GetGoal(ctx context.Context, idOrPrefix string) (*models.Goal, error) {
	return p.getGoal(p.db.WithContext(ctx), idOrPrefix)
}

// ListGoals returns goals, newest first, optionally filtered by status.
func (p *PostgresDB) ListGoals(ctx context.Context, status *models.GoalStatus) ([]*models.Goal, error) {
	q := p.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}

	var rows []goalRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Database(err, "list goals")
	}

	goals := make([]*models.Goal, 0, len(rows))
	for _, r := range rows {
		goals = append(goals, fromGoalRow(r))
	}
	return goals, nil
}

// UpdateGoalProgress sets the current value and completes the goal once
// the target is reached.
func (p *PostgresDB) UpdateGoalProgress(ctx context.Context, idOrPrefix string, value float64) (*models.Goal, error) {
	return p.mutateGoal(ctx, idOrPrefix, func(g *models.Goal) error {
		g.ApplyProgress(value)
		return nil
	})
}

// SetGoalStatus pauses, resumes or completes a goal manually.
func (p *PostgresDB) SetGoalStatus(ctx context.Context, idOrPrefix string, status models.GoalStatus) (*models.Goal, error) {
	return p.mutateGoal(ctx, idOrPrefix, func(g *models.Goal) error {
		if err := g.SetStatus(status); err != nil {
			return apperr.Validation([]string{err.Error()})
		}
		return nil
	})
}

// DeleteGoal removes a goal by ID or prefix.
func (p *PostgresDB) DeleteGoal(ctx context.Context, idOrPrefix string) error {
	db := p.db.WithContext(ctx)
	id, err := p.resolveGoalID(db, idOrPrefix)
	if err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&goalRow{})
	if res.Error != nil {
		return apperr.Database(res.Error, "delete goal")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("goal " + idOrPrefix)
	}
	return nil
}

// SaveInsight appends an insight to the log.
func (p *PostgresDB) SaveInsight(ctx context.Context, i *models.Insight) error {
	row := insightRow{
		ID:              i.ID.String(),
		InsightType:     i.InsightType,
		Content:         i.Content,
		ConfidenceScore: i.ConfidenceScore,
		DateGenerated:   i.DateGenerated,
		DataPeriodStart: i.DataPeriodStart,
		DataPeriodEnd:   i.DataPeriodEnd,
		CreatedAt:       i.CreatedAt,
	}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return apperr.Database(err, "save insight")
	}
	return nil
}

// ListInsights returns insights generated within the lookback window, newest first.
func (p *PostgresDB) ListInsights(ctx context.Context, days int) ([]*models.Insight, error) {
	q := p.db.WithContext(ctx).Order("created_at DESC")
	if days > 0 {
		q = q.Where("date_generated >= ?", cutoff(days))
	}

	var rows []insightRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Database(err, "list insights")
	}

	insights := make([]*models.Insight, 0, len(rows))
	for _, r := range rows {
		id, _ := uuid.Parse(r.ID)
		insights = append(insights, &models.Insight{
			ID:              id,
			InsightType:     r.InsightType,
			Content:         r.Content,
			ConfidenceScore: r.ConfidenceScore,
			DateGenerated:   r.DateGenerated,
			DataPeriodStart: r.DataPeriodStart,
			DataPeriodEnd:   r.DataPeriodEnd,
			CreatedAt:       r.CreatedAt,
		})
	}
	return insights, nil
}

func (p *PostgresDB) mutateGoal(ctx context.Context, idOrPrefix string, fn func(*models.Goal) error) (*models.Goal, error) {
	var out *models.Goal
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := p.getGoal(tx.Clauses(clause.Locking{Strength: "UPDATE"}), idOrPrefix)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		err = tx.Model(&goalRow{}).Where("id = ?", g.ID.String()).Updates(map[string]interface{}{
			"current_value": g.CurrentValue,
			"status":        string(g.Status),
			"updated_at":    g.UpdatedAt,
		}).Error
		if err != nil {
			return apperr.Database(err, "update goal")
		}
		out = g
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Database(err, "update goal")
		}
		return nil, err
	}
	return out, nil
}

func (p *PostgresDB) getGoal(db *gorm.DB, idOrPrefix string) (*models.Goal, error) {
	id, err := p.resolveGoalID(db, idOrPrefix)
	if err != nil {
		return nil, err
	}
	var row goalRow
	err = db.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("goal " + idOrPrefix)
	}
	if err != nil {
		return nil, apperr.Database(err, "get goal")
	}
	return fromGoalRow(row), nil
}

func (p *PostgresDB) resolveGoalID(db *gorm.DB, idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", apperr.NotFound("goal with empty id")
	}

	var matches []string
	err := db.Session(&gorm.Session{NewDB: true}).Model(&goalRow{}).
		Where("substr(id, 1, ?) = ?", len(idOrPrefix), idOrPrefix).Pluck("id", &matches).Error
	if err != nil {
		return "", apperr.Database(err, "resolve goal ID")
	}
	return pickMatch(idOrPrefix, matches)
}

func toEntryRow(e *models.HealthEntry) entryRow {
	return entryRow{
		ID:              e.ID.String(),
		Date:            e.Date,
		Weight:          e.Weight,
		BPSystolic:      e.BPSystolic,
		BPDiastolic:     e.BPDiastolic,
		HeartRate:       e.HeartRate,
		SleepHours:      e.SleepHours,
		ExerciseMinutes: e.ExerciseMinutes,
		Mood:            optString(string(e.Mood)),
		Symptoms:        optString(e.Symptoms),
		Notes:           optString(e.Notes),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func fromEntryRow(r entryRow) *models.HealthEntry {
	id, _ := uuid.Parse(r.ID)
	return &models.HealthEntry{
		ID:              id,
		Date:            models.Day(r.Date),
		Weight:          r.Weight,
		BPSystolic:      r.BPSystolic,
		BPDiastolic:     r.BPDiastolic,
		HeartRate:       r.HeartRate,
		SleepHours:      r.SleepHours,
		ExerciseMinutes: r.ExerciseMinutes,
		Mood:            models.Mood(derefString(r.Mood)),
		Symptoms:        derefString(r.Symptoms),
		Notes:           derefString(r.Notes),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toGoalRow(g *models.Goal) goalRow {
	return goalRow{
		ID:           g.ID.String(),
		GoalType:     string(g.GoalType),
		TargetValue:  g.TargetValue,
		CurrentValue: g.CurrentValue,
		TargetDate:   g.TargetDate,
		Description:  g.Description,
		Status:       string(g.Status),
		CreatedDate:  g.CreatedDate,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func fromGoalRow(r goalRow) *models.Goal {
	id, _ := uuid.Parse(r.ID)
	return &models.Goal{
		ID:           id,
		GoalType:     models.GoalType(r.GoalType),
		TargetValue:  r.TargetValue,
		CurrentValue: r.CurrentValue,
		TargetDate:   models.Day(r.TargetDate),
		Description:  r.Description,
		Status:       models.GoalStatus(r.Status),
		CreatedDate:  models.Day(r.CreatedDate),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
