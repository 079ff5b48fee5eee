// ABOUTME: Tests for the PostgreSQL Repository implementation.
// ABOUTME: Skipped unless HEALTHDASH_TEST_POSTGRES_URL points at a scratch database.
package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
)

func setupTestPostgres(t *testing.T) *PostgresDB {
	t.Helper()

	dsn := os.Getenv("HEALTHDASH_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("HEALTHDASH_TEST_POSTGRES_URL not set")
	}

	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	for _, table := range []string{"health_entries", "goals", "health_insights"} {
		if err := db.db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clear %s: %v", table, err)
		}
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresEntryUpsert(t *testing.T) {
	db := setupTestPostgres(t)
	ctx := context.Background()

	day := models.Today()
	first := models.NewHealthEntry(day).WithWeight(80)
	if err := db.SaveEntry(ctx, first); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	second := models.NewHealthEntry(day).WithWeight(79)
	if err := db.SaveEntry(ctx, second); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected upsert to keep id %v, got %v", first.ID, second.ID)
	}

	entries, err := db.ListEntries(ctx, 7)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || *entries[0].Weight != 79 {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestPostgresGoalLifecycle(t *testing.T) {
	db := setupTestPostgres(t)
	ctx := context.Background()

	g := models.NewGoal(models.GoalExercise, 100, models.Today().AddDate(0, 1, 0), "move more")
	if err := db.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}

	if _, err := db.GetGoal(ctx, "_"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected wildcard prefix to match nothing, got %v", err)
	}

	got, err := db.UpdateGoalProgress(ctx, g.ID.String()[:8], 100)
	if err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}
	if got.Status != models.GoalCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}

	if err := db.DeleteGoal(ctx, g.ID.String()); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	if _, err := db.GetGoal(ctx, g.ID.String()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestMigrateSQLiteToPostgres(t *testing.T) {
	dst := setupTestPostgres(t)
	src := setupTestDB(t)
	ctx := context.Background()

	src.SaveEntry(ctx, models.NewHealthEntry(models.Today()).WithHeartRate(61))
	src.CreateGoal(ctx, models.NewGoal(models.GoalHeartRate, 60, models.Today(), "resting HR 60"))

	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Entries != 1 || summary.Goals != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
