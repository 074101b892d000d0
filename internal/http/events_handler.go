package http

import (
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"sitepulse/internal/events"
	"sitepulse/internal/timeframe"
	"sitepulse/internal/visitors"
)

type PaginationData struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PerPage     int   `json:"per_page"`
}

// Event is the admin-facing view of one raw event. The visitor shows as a
// readable alias, never the underlying fingerprint.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	EventType string         `json:"event_type"`
	Path      string         `json:"path"`
	Source    string         `json:"source,omitempty"`
	Browser   string         `json:"browser,omitempty"`
	OS        string         `json:"os,omitempty"`
	Device    string         `json:"device"`
	Visitor   string         `json:"visitor"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type EventsResponse struct {
	Events     []Event        `json:"events"`
	Pagination PaginationData `json:"pagination"`
}

// EventsIndexAction lists raw events for the admin API, newest first, with
// path/type filters and pagination.
func EventsIndexAction(ctx *cartridge.Context) error {
	db := ctx.DB()

	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := 50 // Events per page
	offset := (page - 1) * limit

	pathFilter := ctx.Query("path", "")
	typeFilter := ctx.Query("type", "")
	rangeFilter := ctx.Query("range", string(timeframe.RangeLabelLast7Days))

	fromDate, toDate := timeframe.ResolveNow(timeframe.RangeLabel(rangeFilter))

	result, err := events.GetFilteredEvents(db, events.EventFilters{
		FromDate:   fromDate,
		ToDate:     toDate,
		PathFilter: pathFilter,
		TypeFilter: typeFilter,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		ctx.Logger.Error("Failed to fetch events", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch events",
		})
	}

	mappedEvents := make([]Event, len(result.Events))
	for i, event := range result.Events {
		mappedEvents[i] = Event{
			Timestamp: event.CreatedAt,
			EventType: event.EventType,
			Path:      event.Path,
			Source:    derefOrEmpty(event.Source),
			Browser:   derefOrEmpty(event.Browser),
			OS:        derefOrEmpty(event.OS),
			Device:    event.Device,
			Visitor:   visitors.VisitorAlias(event.IPHash),
			Metadata:  event.Metadata,
		}
	}

	totalPages := (int(result.Total) + limit - 1) / limit

	return ctx.JSON(EventsResponse{
		Events: mappedEvents,
		Pagination: PaginationData{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  result.Total,
			PerPage:     limit,
		},
	})
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
