package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the store named by databaseURL. postgres:// URLs go to
// PostgreSQL; sqlite://path, file: URIs and :memory: go to SQLite.
func Open(databaseURL string, logLevel string) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// SQLite serialises writers; one connection keeps transactions from
		// tripping over "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	zap.L().Info("database connected", zap.String("dialect", dialector.Name()))
	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), nil
	case strings.HasPrefix(databaseURL, "file:"), databaseURL == ":memory:":
		return sqlite.Open(databaseURL), nil
	}
	return nil, fmt.Errorf("unsupported database url %q", redact(databaseURL))
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "@"); i >= 0 {
		if j := strings.Index(databaseURL, "://"); j >= 0 && j < i {
			return databaseURL[:j+3] + "***" + databaseURL[i:]
		}
	}
	return databaseURL
}
