package content

import (
	"time"

	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentItem is the canonical record behind pages and catalog entries.
// The content payload is opaque to the engine: it is persisted and returned
// verbatim, never inspected beyond field presence checks.
type ContentItem struct {
	bun.BaseModel `bun:"table:content_items,alias:ci"`

	ID            uuid.UUID             `bun:",pk,type:uuid" json:"id"`
	BrandID       uuid.UUID             `bun:"brand_id,type:uuid" json:"brand_id"`
	IsGlobal      bool                  `bun:"is_global,notnull,default:false" json:"is_global,omitempty"`
	Kind          domain.Kind           `bun:"kind,notnull" json:"kind"`
	Slug          string                `bun:"slug,notnull" json:"slug"`
	Title         string                `bun:"title,notnull" json:"title"`
	Status        domain.Status         `bun:"status,notnull,default:'draft'" json:"status"`
	CatalogStatus *domain.CatalogStatus `bun:"catalog_status" json:"catalog_status,omitempty"`
	Version       int64                 `bun:"version,notnull,default:1" json:"version"`
	Content       map[string]any        `bun:"content,type:jsonb" json:"content,omitempty"`
	AuthorType    *domain.AuthorType    `bun:"author_type" json:"author_type,omitempty"`
	AuthorID      *uuid.UUID            `bun:"author_id,type:uuid" json:"author_id,omitempty"`
	PublishedAt   *time.Time            `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time             `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Scope returns the ownership scope of the record.
func (c *ContentItem) Scope() domain.Scope {
	if c.IsGlobal {
		return domain.GlobalScope()
	}
	return domain.BrandScope(c.BrandID)
}

// Assignment grants a brand visibility over a catalog item owned elsewhere.
// Its status is independent of the item's own draft/publish lifecycle.
type Assignment struct {
	bun.BaseModel `bun:"table:brand_assignments,alias:ba"`

	ID          uuid.UUID               `bun:",pk,type:uuid" json:"id"`
	ItemID      uuid.UUID               `bun:"item_id,notnull,type:uuid" json:"item_id"`
	BrandID     uuid.UUID               `bun:"brand_id,notnull,type:uuid" json:"brand_id"`
	Status      domain.AssignmentStatus `bun:"status,notnull,default:'pending'" json:"status"`
	IsPublished bool                    `bun:"is_published,notnull,default:false" json:"is_published"`
	IsFeatured  bool                    `bun:"is_featured,notnull,default:false" json:"is_featured"`
	Priority    int                     `bun:"priority,notnull,default:999" json:"priority"`
	CreatedAt   time.Time               `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time               `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Item *ContentItem `bun:"rel:belongs-to,join:item_id=id" json:"item,omitempty"`
}

// ListedItem is the listing projection: the item plus annotations describing
// how the requesting brand reaches it.
type ListedItem struct {
	*ContentItem

	Source           string                   `json:"source"`
	AssignmentStatus *domain.AssignmentStatus `json:"assignment_status,omitempty"`
	IsMandatory      bool                     `json:"is_mandatory,omitempty"`
	IsFeatured       bool                     `json:"is_featured,omitempty"`
	Priority         int                      `json:"priority,omitempty"`
}

// Listing sources.
const (
	SourceBrand      = "brand"
	SourceAssignment = "assignment"
)

// WriteResult is the normalized response of every mutating operation: the
// minimal identity plus the version for UI feedback, never the full record.
type WriteResult struct {
	ID        uuid.UUID     `json:"id"`
	Slug      string        `json:"slug"`
	Version   int64         `json:"version"`
	Status    domain.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
	Created   bool          `json:"-"`
}
