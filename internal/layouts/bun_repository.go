package layouts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository over bun. Publish writes drop to raw
// bun for the compare-and-swap.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Layout]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a layout repository with optional
// read-through caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewLayoutRepository(db)
	wrapped := base
	if cacheService != nil && keySerializer != nil {
		wrapped = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{db: db, repo: wrapped}
}

// Get loads the brand singleton. The record keys on brand_id rather than a
// surrogate id, so the lookup goes through an explicit where clause.
func (r *BunRepository) Get(ctx context.Context, brandID uuid.UUID) (*Layout, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.brand_id = ?", brandID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{BrandID: brandID.String()}
		}
		return nil, &StorageError{Op: fmt.Sprintf("lookup layout %q", brandID), Err: err}
	}
	if len(records) == 0 {
		return nil, &NotFoundError{BrandID: brandID.String()}
	}
	return records[0], nil
}

func (r *BunRepository) Create(ctx context.Context, record *Layout) (*Layout, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, &StorageError{Op: "create layout", Err: err}
	}
	return created, nil
}

// Update persists draft columns without touching the shared version, status
// or the published payload.
func (r *BunRepository) Update(ctx context.Context, record *Layout) (*Layout, error) {
	if r.db == nil {
		return nil, &StorageError{Op: "update layout", Err: fmt.Errorf("database not configured")}
	}

	res, err := r.db.NewUpdate().
		Model(record).
		Column("header_draft", "footer_draft", "menu_draft", "updated_at").
		Where("?TableAlias.brand_id = ?", record.BrandID).
		Exec(ctx)
	if err != nil {
		return nil, &StorageError{Op: "update layout", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &StorageError{Op: "update layout", Err: err}
	}
	if affected == 0 {
		return nil, &NotFoundError{BrandID: record.BrandID.String()}
	}
	return record, nil
}

// UpdateVersioned persists the record only when the stored version still
// matches expected, bumping it by exactly one in the same statement.
func (r *BunRepository) UpdateVersioned(ctx context.Context, record *Layout, expected int64) (*Layout, error) {
	if r.db == nil {
		return nil, &StorageError{Op: "publish layout", Err: fmt.Errorf("database not configured")}
	}

	record.Version = expected + 1
	res, err := r.db.NewUpdate().
		Model(record).
		Column(
			"header_draft",
			"footer_draft",
			"menu_draft",
			"header_html",
			"footer_html",
			"menu_published",
			"status",
			"version",
			"published_at",
			"updated_at",
		).
		Where("?TableAlias.brand_id = ?", record.BrandID).
		Where("?TableAlias.version = ?", expected).
		Exec(ctx)
	if err != nil {
		return nil, &StorageError{Op: "publish layout", Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &StorageError{Op: "publish layout", Err: err}
	}
	if affected == 0 {
		return nil, &ConflictError{BrandID: record.BrandID.String(), Expected: expected}
	}
	return record, nil
}
