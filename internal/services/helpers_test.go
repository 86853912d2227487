package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-shift-api/internal/database"
	"github.com/franciscosanchezn/gin-shift-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory database. A single connection keeps
// concurrent test goroutines on the same database and serializes statements.
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func newTestUserService(t *testing.T) (UserService, *gorm.DB) {
	db := setupTestDB(t)
	logger, _ := nullLogger()
	return NewUserService(db, bcrypt.MinCost, logger), db
}

// fixedClock returns a clock stuck at hh:mm on 2024-01-01 in UTC
func fixedClock(hh, mm int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 1, 1, hh, mm, 0, 0, time.UTC)
	}
}

func newTestScheduleService(t *testing.T, opts ScheduleOptions) (ScheduleService, *gorm.DB) {
	db := setupTestDB(t)
	logger, _ := nullLogger()
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return NewScheduleService(db, opts, logger), db
}

func seedSchedule(t *testing.T, db *gorm.DB, email, date, status, timeRange string) {
	require.NoError(t, db.Create(&models.Schedule{
		Email:     email,
		Date:      date,
		Status:    status,
		TimeRange: timeRange,
	}).Error)
}

func statusOf(t *testing.T, db *gorm.DB, email, date string) string {
	var s models.Schedule
	require.NoError(t, db.Where("email = ? AND date = ?", email, date).First(&s).Error)
	return s.Status
}

func countSchedules(t *testing.T, db *gorm.DB, email, date string) int64 {
	var n int64
	require.NoError(t, db.Model(&models.Schedule{}).Where("email = ? AND date = ?", email, date).Count(&n).Error)
	return n
}
