package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured backend and wraps the handle with bun.
// The sqlite3 driver is registered by this package; postgres hosts register
// their own driver via a side-effect import before calling Open.
func Open(driver, dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite3", "sqlite":
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "pgx", "pg":
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}
}
