// Package stats maintains the per-day aggregate rows derived from recorded
// analytics events. Raw events stay the source of truth; these rows are a
// cheap pre-aggregation for dashboard range queries.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DailyStat is the per-day aggregate row. Exactly one row exists per UTC
// calendar day that has seen at least one page view. Rows are created or
// incremented, never decremented or deleted.
type DailyStat struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"uniqueIndex;not null"`
	Views     int64     `gorm:"not null;default:0"`
	Visitors  int64     `gorm:"not null;default:0"`
	Sessions  int64     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UTCDayStart truncates a timestamp to midnight UTC. Every day-boundary
// decision in the pipeline goes through this one function; mixing zone
// policies between call sites silently splits a day's counts across two rows.
func UTCDayStart(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// BumpDay upserts the aggregate row for the given day: the first page view of
// a day seeds the row with views=1, visitors=1, sessions=1; later page views
// increment views only. The increment happens inside the database so
// concurrent recorders cannot lose updates to a read-modify-write race.
func BumpDay(ctx context.Context, db *gorm.DB, day time.Time) error {
	day = UTCDayStart(day)
	now := time.Now().UTC()
	query := `
		INSERT INTO daily_stats (date, views, visitors, sessions, created_at, updated_at)
		VALUES (?, 1, 1, 1, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			views = daily_stats.views + 1,
			updated_at = ?
	`
	if err := db.WithContext(ctx).Exec(query, day, now, now, now).Error; err != nil {
		return fmt.Errorf("failed to bump daily stats for %s: %w", day.Format("2006-01-02"), err)
	}
	return nil
}

// BumpToday upserts the aggregate row for the current UTC day.
func BumpToday(ctx context.Context, db *gorm.DB) error {
	return BumpDay(ctx, db, time.Now())
}

// LatestDay returns the most recent aggregate row, or nil when no page view
// has ever been rolled up.
func LatestDay(db *gorm.DB) (*DailyStat, error) {
	var row DailyStat
	err := db.Order("date DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest daily stats: %w", err)
	}
	return &row, nil
}

// GetRange returns the aggregate rows whose day falls within [from, to],
// ordered by day ascending. Days without any page view have no row.
func GetRange(db *gorm.DB, from, to time.Time) ([]DailyStat, error) {
	var rows []DailyStat
	err := db.Where("date BETWEEN ? AND ?", UTCDayStart(from), UTCDayStart(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily stats: %w", err)
	}
	return rows, nil
}
