// ABOUTME: Append-only insight log for SQLite storage.
// ABOUTME: Re-saving an existing insight id is a no-op.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/models"
)

// SaveInsight appends an insight to the log.
func (d *DB) SaveInsight(ctx context.Context, i *models.Insight) error {
	query := `
		INSERT INTO health_insights (id, insight_type, content, confidence_score,
			date_generated, data_period_start, data_period_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	_, err := d.db.ExecContext(ctx, query,
		i.ID.String(),
		i.InsightType,
		i.Content,
		nullFloat(i.ConfidenceScore),
		i.DateGenerated.Format(models.DateLayout),
		nullDate(i.DataPeriodStart),
		nullDate(i.DataPeriodEnd),
		i.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return apperr.Database(err, "save insight")
	}
	return nil
}

// ListInsights returns insights generated within the lookback window, newest first.
func (d *DB) ListInsights(ctx context.Context, days int) ([]*models.Insight, error) {
	query := `
		SELECT id, insight_type, content, confidence_score, date_generated,
			data_period_start, data_period_end, created_at
		FROM health_insights
	`
	var args []interface{}
	if days > 0 {
		query += ` WHERE date_generated >= ?`
		args = append(args, cutoff(days).Format(models.DateLayout))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Database(err, "list insights")
	}
	defer rows.Close()

	var insights []*models.Insight
	for rows.Next() {
		var i models.Insight
		var idStr, generated, createdAt string
		var confidence sql.NullFloat64
		var start, end sql.NullString

		if err := rows.Scan(&idStr, &i.InsightType, &i.Content, &confidence, &generated,
			&start, &end, &createdAt); err != nil {
			return nil, apperr.Database(err, "scan insight")
		}

		i.ID, _ = uuid.Parse(idStr)
		i.ConfidenceScore = floatPtr(confidence)
		i.DateGenerated, _ = time.Parse(models.DateLayout, generated)
		i.DataPeriodStart = datePtr(start)
		i.DataPeriodEnd = datePtr(end)
		i.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		insights = append(insights, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(err, "list insights")
	}
	return insights, nil
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(models.DateLayout)
}

func datePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(models.DateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
