package jobs

import (
	"log/slog"

	"sitepulse/internal/database"
)

// MaintenanceJob performs periodic database housekeeping. The ingest path is
// append-heavy, so the WAL grows steadily; a daily truncating checkpoint keeps
// it bounded without blocking writers for long.
type MaintenanceJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
}

func NewMaintenanceJob(dbManager *database.DBManager, logger *slog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		dbManager: dbManager,
		logger:    logger,
	}
}

// Run checkpoints the write-ahead log.
func (j *MaintenanceJob) Run() error {
	j.logger.Info("Starting database maintenance")

	if err := j.dbManager.CheckpointWAL("TRUNCATE"); err != nil {
		j.logger.Error("Failed to checkpoint WAL", slog.Any("error", err))
		return err
	}

	j.logger.Info("Database maintenance completed")
	return nil
}
