package testsupport

import (
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

func NewSQLiteMemoryDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// A pooled second connection would see an empty database.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewBunDB returns an isolated in-memory database wrapped with bun. The
// handle closes with the test.
func NewBunDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite memory db: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
