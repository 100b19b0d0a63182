package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/testutil"
)

func TestFanoutRespectsLevels(t *testing.T) {
	var info, errs bytes.Buffer
	logger := slog.New(NewFanout(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)).With("component", "test")

	logger.Info("appointment scheduled")
	logger.Error("storage failure", Err(errors.New("boom")))

	assert.Contains(t, info.String(), "appointment scheduled")
	assert.Contains(t, info.String(), `"component":"test"`)
	assert.NotContains(t, errs.String(), "appointment scheduled")
	assert.Contains(t, errs.String(), `"error":"boom"`)
}

func TestDBHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))

	logger.Error("failed to cancel appointment",
		"user_id", "u-1",
		"action", "appointment.cancel",
		Err(errors.New("database is locked")),
		"appointment_id", "a-1",
	)
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "appointment.cancel", entry.Action)
	assert.Equal(t, "database is locked", entry.Error)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Contains(t, string(entry.Extra), "a-1")
}

func TestPurgeSystemLogs(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	old := models.SystemLog{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"}
	recent := models.SystemLog{Timestamp: now.AddDate(0, 0, -1), Level: "ERROR", Message: "recent"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&recent).Error)

	deleted, err := PurgeSystemLogs(db, 30*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}

func TestStartRetentionRejectsBadSchedule(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := StartRetention(db, "not a schedule", 30)
	assert.Error(t, err)

	c, err := StartRetention(db, "@daily", 30)
	require.NoError(t, err)
	c.Stop()
}
