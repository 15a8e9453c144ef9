package infrastructure

import (
	"fmt"
	"time"

	"user-store-service/internal/config"
	"user-store-service/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the SQL store selected by STORE_DRIVER with GORM configuration
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	slow := time.Duration(cfg.Logger.SlowQuerySeconds * float64(time.Second))
	sqlLogger := logger.NewSQLLogger(l, slow, cfg.Logger.Level)

	var dialector gorm.Dialector
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DB.Path)
	case config.DriverPostgres:
		dialector = pgdriver.Open(cfg.DB.DSN())
	default:
		return nil, fmt.Errorf("store driver %q is not SQL backed", cfg.Store.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: sqlLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)

	l.Info("database connected successfully",
		zap.String("driver", cfg.Store.Driver),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.DB.ConnMaxLifetime),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
