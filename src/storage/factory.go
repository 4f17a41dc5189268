package storage

import (
	"fmt"
	"strings"

	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
)

// Open builds and initializes the configured archive backend.
func Open(cfg *models.MConfig) (interfaces.IDatabase, error) {
	var (
		db  interfaces.IDatabase
		err error
	)

	switch strings.ToLower(cfg.Storage.DBType) {
	case "postgres":
		db, err = NewPostgresDB(cfg, logger.NewLogger("PostgresDB"))
	case "", "sqlite":
		db, err = NewAsyncSQLiteDB(cfg, logger.NewLogger("SQLiteDB"))
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.Storage.DBType)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Initialize(); err != nil {
		return nil, err
	}
	return db, nil
}
