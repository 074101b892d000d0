package http

import (
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"sitepulse/internal/config"
	"sitepulse/internal/events"
	"sitepulse/internal/stats"
	"sitepulse/internal/timeframe"
)

// DailyStatPoint is one day of the aggregate traffic series.
type DailyStatPoint struct {
	Date     string `json:"date"`
	Views    int64  `json:"views"`
	Visitors int64  `json:"visitors"`
	Sessions int64  `json:"sessions"`
}

type DailyStatsResponse struct {
	Range string           `json:"range"`
	Stats []DailyStatPoint `json:"stats"`
}

// StatsDailyAction returns the daily rollup series for a named range, or for
// an explicit from/to day pair when both are given.
func StatsDailyAction(ctx *cartridge.Context) error {
	rangeLabel := timeframe.RangeLabel(ctx.Query("range", string(timeframe.RangeLabelLast7Days)))
	from, to := timeframe.ResolveNow(rangeLabel)

	if fromRaw, toRaw := ctx.Query("from", ""), ctx.Query("to", ""); fromRaw != "" && toRaw != "" {
		parsedFrom, errFrom := time.Parse("2006-01-02", fromRaw)
		parsedTo, errTo := time.Parse("2006-01-02", toRaw)
		if errFrom != nil || errTo != nil || parsedTo.Before(parsedFrom) {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "from/to must be YYYY-MM-DD dates with from <= to",
			})
		}
		from, to = parsedFrom, parsedTo
		rangeLabel = "custom"
	}

	rows, err := stats.GetRange(ctx.DB(), stats.UTCDayStart(from), to)
	if err != nil {
		ctx.Logger.Error("Failed to fetch daily stats", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch daily stats",
		})
	}

	points := make([]DailyStatPoint, len(rows))
	for i, row := range rows {
		points[i] = DailyStatPoint{
			Date:     row.Date.UTC().Format("2006-01-02"),
			Views:    row.Views,
			Visitors: row.Visitors,
			Sessions: row.Sessions,
		}
	}

	return ctx.JSON(DailyStatsResponse{
		Range: string(rangeLabel),
		Stats: points,
	})
}

type RealtimeResponse struct {
	ActiveSessions int64 `json:"active_sessions"`
	WindowSeconds  int   `json:"window_seconds"`
}

// RealtimeAction returns the distinct session count for the trailing window.
// An explicit window query parameter overrides the configured default, capped
// so a crafted request cannot force a scan over months of events.
func RealtimeAction(ctx *cartridge.Context) error {
	cfg := config.GetConfig()

	windowSeconds := cfg.RealtimeWindowSeconds
	if raw := ctx.Query("window", ""); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "window must be a positive number of seconds",
			})
		}
		windowSeconds = parsed
	}
	if windowSeconds > cfg.RealtimeWindowMaxSeconds {
		windowSeconds = cfg.RealtimeWindowMaxSeconds
	}

	count, err := events.ActiveSessionCount(ctx.DB(), windowSeconds)
	if err != nil {
		ctx.Logger.Error("Failed to count active sessions", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count active sessions",
		})
	}

	return ctx.JSON(RealtimeResponse{
		ActiveSessions: count,
		WindowSeconds:  windowSeconds,
	})
}

type BreakdownResponse struct {
	Dimension string                `json:"dimension"`
	Range     string                `json:"range"`
	Rows      []events.BreakdownRow `json:"rows"`
}

// BreakdownAction returns grouped event counts for one dimension.
func BreakdownAction(ctx *cartridge.Context) error {
	dimension := ctx.Params("dimension")
	if !events.IsBreakdownDimension(dimension) {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown breakdown dimension: " + dimension,
		})
	}

	rangeLabel := timeframe.RangeLabel(ctx.Query("range", string(timeframe.RangeLabelLast7Days)))
	from, to := timeframe.ResolveNow(rangeLabel)

	rows, err := events.GetBreakdown(ctx.DB(), dimension, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to compute breakdown",
			slog.String("dimension", dimension),
			slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute breakdown",
		})
	}
	if rows == nil {
		rows = []events.BreakdownRow{}
	}

	return ctx.JSON(BreakdownResponse{
		Dimension: dimension,
		Range:     string(rangeLabel),
		Rows:      rows,
	})
}
