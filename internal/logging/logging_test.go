package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSystemLogFor_LiftsKnownAttrs(t *testing.T) {
	record := slog.NewRecord(time.Now(), slog.LevelError, "request failed", 0)
	record.AddAttrs(
		slog.String("path", "/api/items"),
		slog.String("error", "boom"),
		slog.Int("attempt", 2),
	)

	entry := systemLogFor(record, []slog.Attr{slog.String("request_id", "req-1"), slog.String("user_id", "u-1")})

	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "request failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "/api/items", entry.Path)
	assert.Equal(t, "boom", entry.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, float64(2), extra["attempt"])
}

func TestPGHandler_OnlyErrors(t *testing.T) {
	h := &PGHandler{}
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_FansOut(t *testing.T) {
	a, b := &captureHandler{level: slog.LevelInfo}, &captureHandler{level: slog.LevelError}
	log := slog.New(NewMultiHandler(a, b))

	log.Info("hello")
	log.Error("bad")

	assert.Equal(t, []string{"hello", "bad"}, a.messages)
	assert.Equal(t, []string{"bad"}, b.messages)
}

func TestPurgeLogs(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(`DELETE FROM "system_logs" WHERE timestamp < `).WillReturnResult(sqlmock.NewResult(0, 7))
	deleted, err := PurgeLogs(db, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type captureHandler struct {
	level    slog.Level
	messages []string
}

func (c *captureHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= c.level }
func (c *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c.messages = append(c.messages, r.Message)
	return nil
}
func (c *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *captureHandler) WithGroup(string) slog.Handler      { return c }
