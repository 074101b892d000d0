// Package timeframe resolves named date-range labels to concrete time spans.
// Every boundary is computed in UTC: daily aggregate rows are keyed by UTC
// midnight, so range resolution in any other zone would slice days in half.
package timeframe

import "time"

// RangeLabel represents the available named time range options.
type RangeLabel string

const (
	RangeLabelToday      RangeLabel = "today"
	RangeLabelYesterday  RangeLabel = "yesterday"
	RangeLabelLast7Days  RangeLabel = "last_7_days"
	RangeLabelLast30Days RangeLabel = "last_30_days"
	RangeLabelLast90Days RangeLabel = "last_90_days"
	RangeLabelThisMonth  RangeLabel = "this_month"
	RangeLabelLastMonth  RangeLabel = "last_month"
)

// Resolve calculates the [from, to] span for a range label, anchored at the
// given instant. Unknown labels default to the last 7 days.
func Resolve(label RangeLabel, at time.Time) (time.Time, time.Time) {
	now := at.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch label {
	case RangeLabelToday:
		return dayStart, now
	case RangeLabelYesterday:
		yesterday := dayStart.AddDate(0, 0, -1)
		return yesterday, dayStart.Add(-time.Nanosecond)
	case RangeLabelLast7Days:
		return now.AddDate(0, 0, -7), now
	case RangeLabelLast30Days:
		return now.AddDate(0, 0, -30), now
	case RangeLabelLast90Days:
		return now.AddDate(0, 0, -90), now
	case RangeLabelThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), now
	case RangeLabelLastMonth:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfThisMonth.AddDate(0, -1, 0), firstOfThisMonth.Add(-time.Nanosecond)
	default:
		return now.AddDate(0, 0, -7), now
	}
}

// ResolveNow is Resolve anchored at the current instant.
func ResolveNow(label RangeLabel) (time.Time, time.Time) {
	return Resolve(label, time.Now())
}
