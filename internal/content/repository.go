package content

import (
	"context"

	"github.com/goliatone/go-brand-cms/internal/domain"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ListFilter scopes a listing query. Every query is tenant-scoped; status is
// optional.
type ListFilter struct {
	Scope  domain.Scope
	Kind   domain.Kind
	Status *domain.Status
}

// ItemRepository abstracts storage operations for content items. Every write
// after creation goes through UpdateVersioned, which must perform an atomic
// compare-and-swap on the version column and return *ConflictError when the
// stored version no longer matches expected.
type ItemRepository interface {
	Lookup
	// GetGlobalBySlug retrieves a platform-owned record by slug under kind.
	GetGlobalBySlug(ctx context.Context, kind domain.Kind, slug string) (*ContentItem, error)
	Create(ctx context.Context, record *ContentItem) (*ContentItem, error)
	List(ctx context.Context, filter ListFilter) ([]*ContentItem, error)
	UpdateVersioned(ctx context.Context, record *ContentItem, expected int64) (*ContentItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssignmentRepository abstracts the cross-brand assignment edge table.
type AssignmentRepository interface {
	// Ensure creates the (item, brand) edge when absent and leaves an
	// existing edge untouched.
	Ensure(ctx context.Context, itemID, brandID uuid.UUID) (*Assignment, error)
	GetForItem(ctx context.Context, itemID, brandID uuid.UUID) (*Assignment, error)
	ListActive(ctx context.Context, brandID uuid.UUID, kind domain.Kind) ([]*Assignment, error)
}

// NewItemRepository creates the generic bun repository for content items.
func NewItemRepository(db *bun.DB) repository.Repository[*ContentItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentItem]{
		NewRecord: func() *ContentItem { return &ContentItem{} },
		GetID: func(c *ContentItem) uuid.UUID {
			return c.ID
		},
		SetID: func(c *ContentItem, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(c *ContentItem) string {
			return c.Slug
		},
	})
}

// NewAssignmentRepository creates the generic bun repository for assignments.
func NewAssignmentRepository(db *bun.DB) repository.Repository[*Assignment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Assignment]{
		NewRecord: func() *Assignment { return &Assignment{} },
		GetID: func(a *Assignment) uuid.UUID {
			return a.ID
		},
		SetID: func(a *Assignment, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(a *Assignment) string {
			if a == nil {
				return ""
			}
			return a.ID.String()
		},
	})
}
