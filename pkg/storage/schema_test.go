package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/goliatone/go-brand-cms/pkg/storage"
	"github.com/goliatone/go-brand-cms/pkg/testsupport"
	"github.com/google/uuid"
)

func TestCreateTablesIsIdempotent(t *testing.T) {
	db := testsupport.NewBunDB(t)
	ctx := context.Background()

	if err := storage.CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	if err := storage.CreateTables(ctx, db); err != nil {
		t.Fatalf("second create tables: %v", err)
	}
}

func TestSchemaRoundTripsContentItems(t *testing.T) {
	db := testsupport.NewBunDB(t)
	ctx := context.Background()
	if err := storage.CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	record := &content.ContentItem{
		ID:        uuid.New(),
		BrandID:   uuid.New(),
		Kind:      domain.KindPage,
		Slug:      "about-us",
		Title:     "About Us",
		Status:    domain.StatusDraft,
		Version:   1,
		Content:   map[string]any{"body": "hello"},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := db.NewInsert().Model(record).Exec(ctx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var loaded content.ContentItem
	if err := db.NewSelect().Model(&loaded).Where("?TableAlias.id = ?", record.ID).Scan(ctx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if loaded.Slug != "about-us" || loaded.Version != 1 {
		t.Fatalf("unexpected record: %+v", loaded)
	}
}

func TestSchemaEnforcesBrandSlugUniqueness(t *testing.T) {
	db := testsupport.NewBunDB(t)
	ctx := context.Background()
	if err := storage.CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	brandID := uuid.New()
	first := &content.ContentItem{
		ID: uuid.New(), BrandID: brandID, Kind: domain.KindPage,
		Slug: "home", Title: "Home", Status: domain.StatusDraft, Version: 1,
	}
	if _, err := db.NewInsert().Model(first).Exec(ctx); err != nil {
		t.Fatalf("insert first: %v", err)
	}

	duplicate := &content.ContentItem{
		ID: uuid.New(), BrandID: brandID, Kind: domain.KindPage,
		Slug: "home", Title: "Home Again", Status: domain.StatusDraft, Version: 1,
	}
	_, err := db.NewInsert().Model(duplicate).Exec(ctx)
	if err == nil {
		t.Fatal("expected unique violation for duplicate brand slug")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unique") {
		t.Fatalf("expected unique constraint error, got %v", err)
	}

	// Another brand reuses the slug freely.
	other := &content.ContentItem{
		ID: uuid.New(), BrandID: uuid.New(), Kind: domain.KindPage,
		Slug: "home", Title: "Home", Status: domain.StatusDraft, Version: 1,
	}
	if _, err := db.NewInsert().Model(other).Exec(ctx); err != nil {
		t.Fatalf("insert other brand: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := storage.Open("oracle", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := storage.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
