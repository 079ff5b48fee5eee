// ABOUTME: Data migration between health storage backends.
// ABOUTME: Copies entries, goals, and the insight log from source to destination.

package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Entries  int
	Goals    int
	Insights int
}

// MigrateData copies all data from src to dst storage. Entries upsert by
// date and goals by id, so re-running against the same destination does
// not duplicate rows.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	entries, err := src.ListEntries(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list source entries: %w", err)
	}
	for _, e := range entries {
		if err := dst.SaveEntry(ctx, e); err != nil {
			return summary, fmt.Errorf("save entry %s: %w", e.DateString(), err)
		}
		summary.Entries++
	}

	goals, err := src.ListGoals(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("list source goals: %w", err)
	}
	for _, g := range goals {
		if err := dst.PutGoal(ctx, g); err != nil {
			return summary, fmt.Errorf("put goal %s: %w", g.ID, err)
		}
		summary.Goals++
	}

	insights, err := src.ListInsights(ctx, 0)
	if err != nil {
		return summary, fmt.Errorf("list source insights: %w", err)
	}
	for _, i := range insights {
		if err := dst.SaveInsight(ctx, i); err != nil {
			return summary, fmt.Errorf("save insight %s: %w", i.ID, err)
		}
		summary.Insights++
	}

	return summary, nil
}
