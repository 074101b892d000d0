package events

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ActiveSessionCount returns the number of distinct sessions with at least
// one event inside the trailing window. Pure read, no caching: the window is
// small enough to re-scan on every call. Zero is a valid answer, not an
// error.
func ActiveSessionCount(db *gorm.DB, windowSeconds int) (int64, error) {
	if windowSeconds <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-time.Duration(windowSeconds) * time.Second)

	var count int64
	err := db.Model(&AnalyticsEvent{}).
		Where("created_at >= ? AND session_id <> ''", cutoff).
		Distinct("session_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

// breakdownColumns whitelists the dimensions exposed for grouped counts.
// Keyed by the API-facing dimension name, valued by the backing column.
var breakdownColumns = map[string]string{
	"device":     "device",
	"browser":    "browser",
	"os":         "os",
	"source":     "source",
	"event_type": "event_type",
	"path":       "path",
}

// BreakdownRow is one bucket of a grouped count. Value is empty for events
// where the dimension is null (e.g. direct traffic for source).
type BreakdownRow struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// IsBreakdownDimension reports whether the given dimension can be grouped on.
func IsBreakdownDimension(dimension string) bool {
	_, ok := breakdownColumns[dimension]
	return ok
}

// GetBreakdown returns grouped event counts for one dimension over a date
// range, most frequent first.
func GetBreakdown(db *gorm.DB, dimension string, from, to time.Time) ([]BreakdownRow, error) {
	column, ok := breakdownColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("unknown breakdown dimension: %s", dimension)
	}

	var rows []BreakdownRow
	err := db.Model(&AnalyticsEvent{}).
		Select(fmt.Sprintf("COALESCE(%s, '') AS value, COUNT(*) AS count", column)).
		Where("created_at BETWEEN ? AND ?", from, to).
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s breakdown: %w", dimension, err)
	}
	return rows, nil
}

// EventFilters represents filtering options for the raw event listing.
type EventFilters struct {
	FromDate   time.Time
	ToDate     time.Time
	PathFilter string
	TypeFilter string
	Limit      int
	Offset     int
}

// EventsResult represents a paginated events result.
type EventsResult struct {
	Events []AnalyticsEvent
	Total  int64
}

// GetFilteredEvents retrieves filtered and paginated raw events, newest
// first.
func GetFilteredEvents(db *gorm.DB, filters EventFilters) (EventsResult, error) {
	query := db.Model(&AnalyticsEvent{}).
		Where("created_at BETWEEN ? AND ?", filters.FromDate, filters.ToDate)

	if filters.PathFilter != "" {
		query = query.Where("path LIKE ?", "%"+filters.PathFilter+"%")
	}
	if filters.TypeFilter != "" {
		query = query.Where("event_type = ?", filters.TypeFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return EventsResult{}, err
	}

	var events []AnalyticsEvent
	if err := query.Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&events).Error; err != nil {
		return EventsResult{}, err
	}

	return EventsResult{
		Events: events,
		Total:  total,
	}, nil
}
