package gormstore

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormOpen = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// ConnectWithRetry keeps dialing until the database answers a ping or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error

	for attempt := 1; ; attempt++ {
		db, err := gormOpen(dsn)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if dbErr = sqlDB.Ping(); dbErr == nil {
					return db, nil
				}
				sqlDB.Close()
			}
			err = dbErr
		}
		lastErr = err

		if time.Now().After(deadline) {
			break
		}
		logger.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(250 * time.Millisecond)
	}

	return nil, fmt.Errorf("could not connect to database within %s: %w", timeout, lastErr)
}
