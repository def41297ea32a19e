// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"fraudguard/internal/config"
	"fraudguard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig holds database connection pool configuration
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var defaultDBConfig = DBConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    100,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: time.Minute * 30,
}

// NewPostgres opens the result/violation database and applies pool settings.
func NewPostgres(cfg config.Config) (*gorm.DB, error) {
	// Configure GORM logger to ignore "record not found" errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	pool := DBConfig{
		MaxIdleConns:    config.GetIntEnv("DB_MAX_IDLE_CONNS", defaultDBConfig.MaxIdleConns),
		MaxOpenConns:    config.GetIntEnv("DB_MAX_OPEN_CONNS", defaultDBConfig.MaxOpenConns),
		ConnMaxLifetime: config.GetDurationEnv("DB_CONN_MAX_LIFETIME", defaultDBConfig.ConnMaxLifetime),
		ConnMaxIdleTime: config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", defaultDBConfig.ConnMaxIdleTime),
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	return db, nil
}

// Migrate creates or updates the result and violation tables.
func Migrate(db *gorm.DB, resultTable, violationTable string) error {
	if err := db.Table(resultTable).AutoMigrate(&models.ScoredTransaction{}); err != nil {
		return fmt.Errorf("migrate %s: %w", resultTable, err)
	}
	if err := db.Table(violationTable).AutoMigrate(&models.Violation{}); err != nil {
		return fmt.Errorf("migrate %s: %w", violationTable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
