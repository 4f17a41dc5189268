package storage

import (
	"database/sql"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	archive
	Config *models.MConfig
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		archive: archive{
			Logger: log,
			dialect: dialect{
				name:      "sqlite",
				floatType: "REAL",
				boolType:  "INTEGER",
				timeType:  "TIMESTAMP",
				table:     func(name string) string { return name },
				bind:      func(int) string { return "?" },
			},
		},
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	db, err := sql.Open("sqlite", d.Config.Storage.DBPath)
	if err != nil {
		return helpers.NewDatabaseError("open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping sqlite", err)
	}

	// A single writer avoids SQLITE_BUSY between concurrent sessions.
	db.SetMaxOpenConns(1)
	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("SQLite archive ready at %s", d.Config.Storage.DBPath)
	return nil
}
