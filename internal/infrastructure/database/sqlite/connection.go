package sqlite

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"shutdownassistant/internal/domain/entity"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const dbFileName = "history.db"

var (
	dbInstance *gorm.DB
	once       sync.Once
)

// DefaultPath returns ASSISTANT_DB_PATH, or history.db next to the config file.
func DefaultPath(appName string) string {
	if p := os.Getenv("ASSISTANT_DB_PATH"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("⚠️ WARN: user config dir unavailable (%v), defaulting to '%s'", err, dbFileName)
		return dbFileName
	}
	return filepath.Join(dir, appName, dbFileName)
}

// NewDB initializes the GORM database connection using SQLite.
// It ensures that the connection is established only once (singleton pattern).
func NewDB(path string) *gorm.DB {
	once.Do(func() {
		db, err := Open(path)
		if err != nil {
			log.Fatalf("🔴 ERROR: Failed to open database: %v", err)
		}
		log.Printf("Successfully connected to database: %s", path)
		dbInstance = db
	})
	return dbInstance
}

// Open connects to the SQLite file at path, creating its directory, and
// migrates the schema.
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("🔴 ERROR: failed to create database directory %s: %w", dir, err)
		}
	}

	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to connect to database %s: %w", path, err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.Schedule{},
	)
	if err != nil {
		return fmt.Errorf("🔴 ERROR: schema migration failed: %w", err)
	}
	return nil
}

// CloseDB closes the database connection if it's open.
func CloseDB() error {
	if dbInstance != nil {
		sqlDB, err := dbInstance.DB()
		if err != nil {
			return fmt.Errorf("🔴 ERROR: failed to get underlying *sql.DB: %w", err)
		}
		log.Println("Closing database connection...")
		return sqlDB.Close()
	}
	return nil
}
