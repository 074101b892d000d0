package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"sitepulse/internal/events"
)

const errInvalidRequest = "Invalid request"

// CreateEventParams is the public ingestion payload. Duration and scrollDepth
// stay untyped so sloppy clients (numbers as strings, missing fields) degrade
// to null columns instead of rejected signals.
type CreateEventParams struct {
	EventType   string         `json:"eventType"`
	PageURL     string         `json:"pageUrl"`
	Referrer    string         `json:"referrer"`
	SessionID   string         `json:"sessionId"`
	VisitorID   string         `json:"visitorId"`
	FirstSource string         `json:"firstSource"`
	Duration    any            `json:"duration"`
	ScrollDepth any            `json:"scrollDepth"`
	Metadata    map[string]any `json:"metadata"`
}

// CreateEventPublicAPIHandler accepts one signal over the public JSON API.
// Responds 201 with the stored event id, or 400 naming the missing field.
func CreateEventPublicAPIHandler(ctx *cartridge.Context) error {
	ctx.Logger.Debug("Received event request",
		slog.String("method", ctx.Method()),
		slog.String("path", ctx.Path()))

	var params CreateEventParams
	if err := ctx.Ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse event request", slog.Any("error", err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": errInvalidRequest,
		})
	}

	id, err := events.RecordEvent(ctx.DBManager, ctx.Logger, recordInput(ctx, &params))
	if err != nil {
		var validationErr *events.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": validationErr.Error(),
				"field": validationErr.Field,
			})
		}

		ctx.Logger.Error("Failed to record event", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record event",
		})
	}

	return ctx.Status(http.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

// CreateEventBeaconHandler handles signals sent via navigator.sendBeacon.
// Beacons fire during page unload and the browser discards the response, so
// this handler acknowledges with 202 no matter what happened.
func CreateEventBeaconHandler(ctx *cartridge.Context) error {
	// sendBeacon posts as text/plain, decode the body directly
	var params CreateEventParams
	if err := json.Unmarshal(ctx.Body(), &params); err != nil {
		ctx.Logger.Debug("Failed to parse beacon request", slog.Any("error", err))
		return ctx.SendStatus(http.StatusAccepted)
	}

	if _, err := events.RecordEvent(ctx.DBManager, ctx.Logger, recordInput(ctx, &params)); err != nil {
		ctx.Logger.Debug("Failed to record beacon event", slog.Any("error", err))
		return ctx.SendStatus(http.StatusAccepted)
	}

	return ctx.SendStatus(http.StatusAccepted)
}

func recordInput(ctx *cartridge.Context, params *CreateEventParams) *events.RecordEventInput {
	userAgentHeader := ctx.Get("User-Agent")
	if forwardedUA := ctx.Get("X-Forwarded-User-Agent"); forwardedUA != "" {
		userAgentHeader = forwardedUA
	}

	return &events.RecordEventInput{
		EventType:   params.EventType,
		PageURL:     params.PageURL,
		Referrer:    params.Referrer,
		UserAgent:   userAgentHeader,
		ClientIP:    getClientIP(ctx.Ctx),
		SessionID:   params.SessionID,
		VisitorID:   params.VisitorID,
		FirstSource: params.FirstSource,
		Duration:    params.Duration,
		ScrollDepth: params.ScrollDepth,
		Metadata:    params.Metadata,
	}
}
