package http

import (
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"

	"sitepulse/internal/config"
	"sitepulse/internal/stats"
)

// HealthStatus is the liveness report for the ingestion service. Beyond the
// DB ping it surfaces the last day the rollup touched, which is the first
// thing to check when dashboards go flat while ingestion looks healthy.
type HealthStatus struct {
	Status        string    `json:"status"`
	App           string    `json:"app"`
	Timestamp     time.Time `json:"timestamp"`
	DBStatus      string    `json:"db_status"`
	LastRollupDay string    `json:"last_rollup_day,omitempty"`
}

// HealthIndexAction handles the health check endpoint
func HealthIndexAction(ctx *cartridge.Context) error {
	cfg := config.GetConfig()
	dbStatus := "ok"
	lastRollupDay := ""

	db := ctx.DBManager.GetConnection()
	if db == nil {
		dbStatus = "error"
		ctx.Logger.Error("Database connection unavailable")
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			dbStatus = "error"
			ctx.Logger.Error("Database connection error", slog.Any("error", err))
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
			ctx.Logger.Error("Database ping failed", slog.Any("error", err))
		}
	}

	if dbStatus == "ok" {
		latest, err := stats.LatestDay(db)
		if err != nil {
			ctx.Logger.Error("Failed to read rollup state", slog.Any("error", err))
		} else if latest != nil {
			lastRollupDay = latest.Date.UTC().Format("2006-01-02")
		}
	}

	health := HealthStatus{
		Status:        "ok",
		App:           cfg.AppName,
		Timestamp:     time.Now().UTC(),
		DBStatus:      dbStatus,
		LastRollupDay: lastRollupDay,
	}

	if dbStatus != "ok" {
		health.Status = "degraded"
	}

	return ctx.JSON(health)
}
