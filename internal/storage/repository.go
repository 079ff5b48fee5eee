// ABOUTME: Repository interface for health data storage.
// ABOUTME: Defines contract for entries, goals and the insight log.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/healthdash/internal/models"
)

// Repository defines the storage interface for health data.
// Every call acquires its connection for the duration of that call only.
type Repository interface {
	// Entry operations. SaveEntry validates and upserts by date.
	SaveEntry(ctx context.Context, e *models.HealthEntry) error
	GetEntry(ctx context.Context, date time.Time) (*models.HealthEntry, error)
	LatestEntry(ctx context.Context) (*models.HealthEntry, error)
	// ListEntries returns entries dated within the last days days in
	// ascending date order. days <= 0 returns everything.
	ListEntries(ctx context.Context, days int) ([]*models.HealthEntry, error)
	DeleteEntry(ctx context.Context, date time.Time) error

	// Goal operations
	CreateGoal(ctx context.Context, g *models.Goal) error
	PutGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, idOrPrefix string) (*models.Goal, error)
	ListGoals(ctx context.Context, status *models.GoalStatus) ([]*models.Goal, error)
	UpdateGoalProgress(ctx context.Context, idOrPrefix string, value float64) (*models.Goal, error)
	SetGoalStatus(ctx context.Context, idOrPrefix string, status models.GoalStatus) (*models.Goal, error)
	DeleteGoal(ctx context.Context, idOrPrefix string) error

	// Insight log (append-only)
	SaveInsight(ctx context.Context, i *models.Insight) error
	ListInsights(ctx context.Context, days int) ([]*models.Insight, error)

	// Lifecycle
	Close() error
}

// cutoff returns the earliest date included in a days-long lookback.
func cutoff(days int) time.Time {
	return models.Today().AddDate(0, 0, -days)
}
