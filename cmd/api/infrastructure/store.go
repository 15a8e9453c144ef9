package infrastructure

import (
	"fmt"

	"user-store-service/internal/adapter/db/jsonfile"
	"user-store-service/internal/adapter/db/relational"
	"user-store-service/internal/adapter/repository/memory"
	"user-store-service/internal/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewSnapshotter returns the persistence backend for the user store.
// db is only used by the SQL drivers and may be nil for the file driver.
func NewSnapshotter(cfg *config.Config, db *gorm.DB, l *zap.Logger) (memory.Snapshotter, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		l.Info("using JSON file store", zap.String("path", cfg.Store.DataFile))
		return jsonfile.NewUserFile(cfg.Store.DataFile, l), nil
	case config.DriverSQLite, config.DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("store driver %q requires a database connection", cfg.Store.Driver)
		}
		return relational.NewUserRepo(db, l), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// UsesDatabase reports whether the configured store driver needs a SQL connection
func UsesDatabase(cfg *config.Config) bool {
	return cfg.Store.Driver == config.DriverSQLite || cfg.Store.Driver == config.DriverPostgres
}
