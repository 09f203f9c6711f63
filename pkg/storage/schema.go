package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/layouts"
	"github.com/uptrace/bun"
)

// CreateTables provisions the engine schema. Every statement is idempotent so
// the call is safe on each boot.
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*content.ContentItem)(nil),
		(*content.Assignment)(nil),
		(*layouts.Layout)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}

	// Slug uniqueness is scoped per brand and kind; global records sit outside
	// the brand namespace and are deduplicated by kind alone.
	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_content_items_brand_kind_slug ON content_items(brand_id, kind, slug) WHERE is_global = FALSE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_content_items_global_kind_slug ON content_items(kind, slug) WHERE is_global = TRUE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_brand_assignments_item_brand ON brand_assignments(item_id, brand_id)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_kind_status ON content_items(kind, status)",
		"CREATE INDEX IF NOT EXISTS idx_brand_assignments_brand_status ON brand_assignments(brand_id, status)",
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: create index: %w", err)
		}
	}
	return nil
}
