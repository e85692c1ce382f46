package storage

import (
	"fmt"

	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"
)

// NewUserStore builds the user store selected by cfg.Storage.DBType.
// Initialize must be called before use.
func NewUserStore(cfg *models.MConfig, log *logger.Logger) (interfaces.IUserStore, error) {
	switch cfg.Storage.DBType {
	case "sqlite":
		return NewSQLiteDB(cfg.Storage, log.Named("SQLiteDB")), nil
	case "postgres":
		return NewPostgresDB(cfg.Storage, cfg.Name, log.Named("PostgresDB")), nil
	default:
		return nil, fmt.Errorf("unsupported db_type %q", cfg.Storage.DBType)
	}
}
