package storage

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"

	_ "github.com/lib/pq"
)

var schemaNameRe = regexp.MustCompile(`[^a-z0-9_]+`)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	archive
	Config *models.MConfig
	Schema string
}

// -----------------------------------------------------------------------------

// NewPostgresDB keeps every table in a schema named after the application.
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	schema := SchemaName(cfg.Name)
	if schema == "" {
		return nil, fmt.Errorf("cannot derive a schema name from application name %q", cfg.Name)
	}

	return &PostgresDB{
		Config: cfg,
		Schema: schema,
		archive: archive{
			Logger: log,
			dialect: dialect{
				name:      "postgres",
				floatType: "DOUBLE PRECISION",
				boolType:  "BOOLEAN",
				timeType:  "TIMESTAMPTZ",
				table:     func(name string) string { return fmt.Sprintf(`"%s"."%s"`, schema, name) },
				bind:      func(n int) string { return fmt.Sprintf("$%d", n) },
			},
		},
	}, nil
}

// -----------------------------------------------------------------------------

// SchemaName lowercases name and replaces anything outside [a-z0-9_] with "_".
func SchemaName(name string) string {
	return strings.Trim(schemaNameRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return helpers.NewDatabaseError("open postgres", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping postgres", err)
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("create schema %s", d.Schema), err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}
