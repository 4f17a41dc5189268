package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
)

// dialect captures what differs between the SQLite and Postgres archives.
type dialect struct {
	name      string
	floatType string
	boolType  string
	timeType  string
	// table qualifies a bare table name (schema prefix on Postgres).
	table func(name string) string
	// bind returns the n-th (1-based) placeholder.
	bind func(n int) string
}

// -----------------------------------------------------------------------------

// archive implements the selection archive on top of database/sql.
type archive struct {
	DB      *sql.DB
	Logger  *logger.Logger
	dialect dialect
}

// -----------------------------------------------------------------------------

func (a *archive) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = a.dialect.bind(i + 1)
	}
	return strings.Join(parts, ", ")
}

// -----------------------------------------------------------------------------

func (a *archive) createTables() error {
	d := a.dialect
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetched_at %s,
				symbol TEXT,
				security TEXT,
				gics_sector TEXT,
				gics_sub_industry TEXT,
				headquarters TEXT,
				date_added TEXT,
				cik TEXT,
				founded TEXT,
				PRIMARY KEY (fetched_at, symbol)
			);`, d.table("catalog_snapshots"), d.timeType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				symbol TEXT,
				date TEXT,
				open %[2]s,
				high %[2]s,
				low %[2]s,
				close %[2]s,
				volume %[2]s,
				dividends %[2]s,
				stock_splits %[2]s,
				fetched_at %[3]s,
				PRIMARY KEY (symbol, date)
			);`, d.table("price_history"), d.floatType, d.timeType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				symbol TEXT,
				window_token TEXT,
				label TEXT,
				high %[2]s,
				low %[2]s,
				max_volume %[2]s,
				min_volume %[2]s,
				max_dividends %[2]s,
				split_occurred %[3]s,
				computed_at %[4]s,
				PRIMARY KEY (symbol, window_token)
			);`, d.table("range_summaries"), d.floatType, d.boolType, d.timeType),
	}

	for _, stmt := range statements {
		if _, err := a.DB.Exec(stmt); err != nil {
			return helpers.NewDatabaseError(fmt.Sprintf("%s: failed to create tables", d.name), err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (a *archive) SaveCatalog(ctx context.Context, catalog *models.MCatalog) error {
	if catalog == nil || len(catalog.Rows) == 0 {
		return nil
	}

	fetchedAt := catalog.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (fetched_at, symbol, security, gics_sector, gics_sub_industry, headquarters, date_added, cik, founded)
		VALUES (%s)
		ON CONFLICT (fetched_at, symbol) DO NOTHING
	`, a.dialect.table("catalog_snapshots"), a.placeholders(9))

	return a.inTx(ctx, "save catalog", query, func(stmt *sql.Stmt) error {
		for _, r := range catalog.Rows {
			if _, err := stmt.ExecContext(ctx, fetchedAt.UTC(), r.Symbol, r.Security, r.Sector, r.SubIndustry,
				r.Headquarters, r.DateAdded, r.CIK, r.Founded); err != nil {
				return err
			}
		}
		return nil
	})
}

// -----------------------------------------------------------------------------

func (a *archive) SavePriceHistory(ctx context.Context, history *models.MPriceHistory) error {
	if history.Len() == 0 {
		return nil
	}

	fetchedAt := history.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (symbol, date, open, high, low, close, volume, dividends, stock_splits, fetched_at)
		VALUES (%s)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume,
			dividends = excluded.dividends,
			stock_splits = excluded.stock_splits,
			fetched_at = excluded.fetched_at
	`, a.dialect.table("price_history"), a.placeholders(10))

	return a.inTx(ctx, "save price history", query, func(stmt *sql.Stmt) error {
		for _, b := range history.Bars {
			if _, err := stmt.ExecContext(ctx, history.Symbol, b.Date.Format("2006-01-02"),
				nullable(b.Open), nullable(b.High), nullable(b.Low), nullable(b.Close),
				nullable(b.Volume), nullable(b.Dividends), nullable(b.StockSplits), fetchedAt.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
}

// -----------------------------------------------------------------------------

func (a *archive) SaveRangeSummary(ctx context.Context, symbol string, window models.MWindow, s models.MRangeSummary) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (symbol, window_token, label, high, low, max_volume, min_volume, max_dividends, split_occurred, computed_at)
		VALUES (%s)
		ON CONFLICT (symbol, window_token) DO UPDATE SET
			label = excluded.label,
			high = excluded.high,
			low = excluded.low,
			max_volume = excluded.max_volume,
			min_volume = excluded.min_volume,
			max_dividends = excluded.max_dividends,
			split_occurred = excluded.split_occurred,
			computed_at = excluded.computed_at
	`, a.dialect.table("range_summaries"), a.placeholders(10))

	return a.inTx(ctx, "save range summary", query, func(stmt *sql.Stmt) error {
		_, err := stmt.ExecContext(ctx, symbol, window.Token, s.Label,
			nullable(s.High), nullable(s.Low), nullable(s.MaxVolume), nullable(s.MinVolume),
			nullable(s.MaxDividends), s.SplitOccurred, time.Now().UTC())
		return err
	})
}

// -----------------------------------------------------------------------------

func (a *archive) inTx(ctx context.Context, op, query string, fn func(stmt *sql.Stmt) error) error {
	if a.DB == nil {
		return helpers.NewDatabaseError(op, fmt.Errorf("%s archive is not initialized", a.dialect.name))
	}

	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return helpers.NewDatabaseError(op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return helpers.NewDatabaseError(op, err)
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return helpers.NewDatabaseError(op, err)
	}
	if err := tx.Commit(); err != nil {
		return helpers.NewDatabaseError(op, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (a *archive) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

// nullable stores NaN as SQL NULL.
func nullable(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: !math.IsNaN(f) && !math.IsInf(f, 0)}
}
