package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartCleanup schedules a daily purge of system_logs older than retentionDays.
// The caller stops the returned scheduler on shutdown.
func StartCleanup(db *gorm.DB, retentionDays int) (*cron.Cron, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}

	c := cron.New()
	if _, err := c.AddFunc("@daily", func() {
		deleted, err := PurgeLogs(db, time.Now().AddDate(0, 0, -retentionDays))
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func PurgeLogs(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
