package layouts

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage for the layout singleton. Draft saves are
// last-write-wins per section; publishes go through UpdateVersioned, which
// must compare-and-swap on the version column and return *ConflictError on
// mismatch.
type Repository interface {
	Get(ctx context.Context, brandID uuid.UUID) (*Layout, error)
	Create(ctx context.Context, record *Layout) (*Layout, error)
	Update(ctx context.Context, record *Layout) (*Layout, error)
	UpdateVersioned(ctx context.Context, record *Layout, expected int64) (*Layout, error)
}

// NewLayoutRepository creates the generic bun repository for layouts.
func NewLayoutRepository(db *bun.DB) repository.Repository[*Layout] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Layout]{
		NewRecord: func() *Layout { return &Layout{} },
		GetID: func(l *Layout) uuid.UUID {
			return l.BrandID
		},
		SetID: func(l *Layout, id uuid.UUID) {
			l.BrandID = id
		},
		GetIdentifier: func() string {
			return "brand_id"
		},
		GetIdentifierValue: func(l *Layout) string {
			if l == nil {
				return ""
			}
			return l.BrandID.String()
		},
	})
}
