package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sitepulse/internal/config"
	"sitepulse/internal/metrics"
	"sitepulse/internal/stats"
	"sitepulse/internal/visitors"
)

// RecordEventInput defines the input required to record one visit signal.
// Duration and ScrollDepth arrive untyped because instrumentation scripts
// send whatever they have; non-numeric values are dropped, not rejected.
type RecordEventInput struct {
	EventType   string
	PageURL     string
	Referrer    string
	UserAgent   string
	ClientIP    string
	SessionID   string
	VisitorID   string
	FirstSource string
	Duration    any
	ScrollDepth any
	Metadata    map[string]any
}

// RecordEvent validates and persists exactly one analytics event, then
// triggers the daily rollup for page views. It returns the new event's
// identifier.
//
// Only a missing EventType or PageURL is rejected (*ValidationError); every
// other field is sanitized and defaulted. The rollup runs under its own
// deadline and its failure never fails the recording - raw events remain the
// source of truth.
func RecordEvent(dbManager cartridge.DBManager, logger *slog.Logger, input *RecordEventInput) (uint, error) {
	if input.EventType == "" {
		metrics.EventsRejected.Inc()
		return 0, NewValidationError("eventType")
	}
	if input.PageURL == "" {
		metrics.EventsRejected.Inc()
		return 0, NewValidationError("pageUrl")
	}

	attribution := ParseAttribution(input.UserAgent, input.PageURL)
	now := time.Now().UTC()

	event := &AnalyticsEvent{
		EventType:   input.EventType,
		PageURL:     input.PageURL,
		Path:        attribution.Path,
		Referrer:    input.Referrer,
		Source:      attribution.Source,
		FirstSource: optionalString(input.FirstSource),
		Browser:     attribution.Browser,
		OS:          attribution.OS,
		Device:      attribution.Device,
		IPHash:      visitors.DailyFingerprint(input.ClientIP, now),
		SessionID:   input.SessionID,
		VisitorID:   input.VisitorID,
		Duration:    coerceInt(input.Duration),
		ScrollDepth: clampPercent(coerceInt(input.ScrollDepth)),
		CreatedAt:   now,
	}
	if len(input.Metadata) > 0 {
		event.Metadata = datatypes.JSONMap(input.Metadata)
	}

	db := dbManager.GetConnection()
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
	if err != nil {
		logger.Error("Failed to store analytics event", slog.Any("error", err))
		return 0, fmt.Errorf("failed to store analytics event: %w", err)
	}
	metrics.EventsRecorded.WithLabelValues(event.EventType).Inc()

	if event.EventType == EventTypePageView {
		bumpDailyRollup(db, logger)
	}

	return event.ID, nil
}

// bumpDailyRollup updates today's aggregate row. It runs under its own short
// deadline, decoupled from the event insert, so a slow or failing rollup
// never surfaces as a recording failure.
func bumpDailyRollup(db *gorm.DB, logger *slog.Logger) {
	timeout := time.Duration(config.GetConfig().RollupTimeoutMillis) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := stats.BumpToday(ctx, db); err != nil {
		metrics.RollupFailures.Inc()
		logger.Error("Failed to update daily rollup", slog.Any("error", err))
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// coerceInt parses a loosely typed numeric value. JSON numbers decode as
// float64; instrumentation scripts occasionally send numbers as strings.
// Anything else becomes nil.
func coerceInt(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// clampPercent bounds a scroll depth to the 0-100 range.
func clampPercent(value *int) *int {
	if value == nil {
		return nil
	}
	n := *value
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return &n
}
