package logging

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/models"
)

// PurgeSystemLogs deletes system log rows older than retention.
func PurgeSystemLogs(db *gorm.DB, retention time.Duration, now time.Time) (int64, error) {
	result := db.Where("timestamp < ?", now.Add(-retention)).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartRetention schedules PurgeSystemLogs on schedule (cron syntax or @daily
// style descriptors). The returned cron must be stopped on shutdown.
func StartRetention(db *gorm.DB, schedule string, retentionDays int) (*cron.Cron, error) {
	retention := time.Duration(retentionDays) * 24 * time.Hour
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		deleted, err := PurgeSystemLogs(db, retention, time.Now())
		if err != nil {
			slog.Error("log cleanup failed", Err(err))
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
