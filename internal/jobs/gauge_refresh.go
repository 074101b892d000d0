package jobs

import (
	"log/slog"

	"sitepulse/internal/config"
	"sitepulse/internal/database"
	"sitepulse/internal/events"
	"sitepulse/internal/metrics"
)

// GaugeRefreshJob keeps the active sessions gauge in sync with the database.
// The realtime query endpoint always computes fresh counts; the gauge exists
// for dashboards scraping /metrics, so ticker-interval staleness is fine.
type GaugeRefreshJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewGaugeRefreshJob(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *GaugeRefreshJob {
	return &GaugeRefreshJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run recomputes the distinct session count for the configured window and
// publishes it to the gauge.
func (j *GaugeRefreshJob) Run() error {
	db := j.dbManager.GetConnection()

	count, err := events.ActiveSessionCount(db, j.cfg.RealtimeWindowSeconds)
	if err != nil {
		j.logger.Error("Failed to refresh active sessions gauge", slog.Any("error", err))
		return err
	}

	metrics.ActiveSessions.Set(float64(count))
	j.logger.Debug("Refreshed active sessions gauge", slog.Int64("sessions", count))
	return nil
}
