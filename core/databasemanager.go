package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventgate.io/eventgate/model"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// DatabaseManager owns the connection pool for the guest directory and the
// attendance ledger. It is constructed once at startup and handed to every
// endpoint; nothing in the service touches a global connection.
type DatabaseManager struct {
	SqlDB  *sql.DB
	gormDB *gorm.DB
}

// New opens a MySQL-backed manager. dsn must include the schema and
// parseTime=true. A ping failure here is fatal for the caller: the service
// refuses to start without its store.
func New(dsn string, maxConnection int, level LogLevel) (*DatabaseManager, error) {
	return Open(mysql.Open(dsn), maxConnection, level)
}

// Open wires the manager over an arbitrary GORM dialector. Tests use it with
// an in-memory SQLite database.
func Open(dialector gorm.Dialector, maxConnection int, level LogLevel) (*DatabaseManager, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(level)),
		// Duplicate-key violations must come back as gorm.ErrDuplicatedKey
		// regardless of driver; the check-in race conversion depends on it.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{SqlDB: sqlDB, gormDB: db}, nil
}

// DB returns a request-scoped handle bound to ctx.
func (dm *DatabaseManager) DB(ctx context.Context) *gorm.DB {
	return dm.gormDB.WithContext(ctx)
}

// Migrate creates the guests and attendance tables, including the unique
// indexes on guests.scan_code and attendance.guest_id.
func (dm *DatabaseManager) Migrate() error {
	return dm.gormDB.AutoMigrate(&model.Guest{}, &model.AttendanceRecord{})
}

// Close closes the global pool.
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}

func gormLogLevel(level LogLevel) logger.LogLevel {
	switch level {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	default:
		return logger.Silent
	}
}
