// Package database opens the embedded SQLite store that holds job status
// and llm call records.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config configures the database connection.
type Config struct {
	// Path is the SQLite file. Empty means a private in-memory database.
	Path string
	// Debug logs every SQL statement.
	Debug bool
}

// Open connects to SQLite and migrates the given models.
func Open(cfg Config, models ...any) (*gorm.DB, error) {
	dsn := memoryDSN()
	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return db, nil
}

// OpenMemory opens a fresh in-memory database. Each call gets its own.
func OpenMemory(models ...any) (*gorm.DB, error) {
	return Open(Config{}, models...)
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.NewString())
}
