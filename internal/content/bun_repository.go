package content

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-brand-cms/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunItemRepository implements ItemRepository over bun. Compare-and-swap
// updates drop to raw bun on the shared *bun.DB; everything else goes through
// the generic repository so the optional cache layer stays effective.
type BunItemRepository struct {
	db   *bun.DB
	repo repository.Repository[*ContentItem]
}

func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache constructs an ItemRepository with optional
// read-through caching.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunItemRepository {
	base := NewItemRepository(db)
	return &BunItemRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunItemRepository) Create(ctx context.Context, record *ContentItem) (*ContentItem, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, &StorageError{Op: "create content item", Err: err}
	}
	return created, nil
}

func (r *BunItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentItem, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content item", id.String())
	}
	return result, nil
}

func (r *BunItemRepository) GetBySlug(ctx context.Context, brandID uuid.UUID, kind domain.Kind, slug string) (*ContentItem, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug).
				Where("?TableAlias.kind = ?", string(kind)).
				Where("?TableAlias.brand_id = ?", brandID).
				Where("?TableAlias.is_global = ?", false)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content item", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content item", Key: slug}
	}
	return records[0], nil
}

func (r *BunItemRepository) GetGlobalBySlug(ctx context.Context, kind domain.Kind, slug string) (*ContentItem, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug).
				Where("?TableAlias.kind = ?", string(kind)).
				Where("?TableAlias.is_global = ?", true)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content item", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content item", Key: slug}
	}
	return records[0], nil
}

func (r *BunItemRepository) List(ctx context.Context, filter ListFilter) ([]*ContentItem, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.kind = ?", string(filter.Kind))
			if brandID, ok := filter.Scope.BrandID(); ok {
				q = q.Where("?TableAlias.brand_id = ?", brandID).
					Where("?TableAlias.is_global = ?", false)
			} else {
				q = q.Where("?TableAlias.is_global = ?", true)
			}
			if filter.Status != nil {
				q = q.Where("?TableAlias.status = ?", string(*filter.Status))
			}
			return q.OrderExpr("?TableAlias.updated_at DESC")
		}),
	)
	if err != nil {
		return nil, &StorageError{Op: "list content items", Err: err}
	}
	return records, nil
}

// UpdateVersioned persists the record only when the stored version still
// matches expected, bumping it by exactly one in the same statement.
func (r *BunItemRepository) UpdateVersioned(ctx context.Context, record *ContentItem, expected int64) (*ContentItem, error) {
	if r.db == nil {
		return nil, &StorageError{Op: "update content item", Err: fmt.Errorf("database not configured")}
	}

	record.Version = expected + 1
	res, err := r.db.NewUpdate().
		Model(record).
		Column(
			"brand_id",
			"is_global",
			"slug",
			"title",
			"status",
			"catalog_status",
			"version",
			"content",
			"author_type",
			"author_id",
			"published_at",
			"updated_at",
		).
		Where("?TableAlias.id = ?", record.ID).
		Where("?TableAlias.version = ?", expected).
		Exec(ctx)
	if err != nil {
		return nil, &StorageError{Op: "update content item", Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &StorageError{Op: "update content item", Err: err}
	}
	if affected == 0 {
		return nil, &ConflictError{Resource: "content item", Key: record.ID.String(), Expected: expected}
	}
	return record, nil
}

func (r *BunItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &ContentItem{ID: id}); err != nil {
		return &StorageError{Op: "delete content item", Err: err}
	}
	return nil
}

// BunAssignmentRepository implements AssignmentRepository over bun.
type BunAssignmentRepository struct {
	db   *bun.DB
	repo repository.Repository[*Assignment]
}

func NewBunAssignmentRepository(db *bun.DB) *BunAssignmentRepository {
	return NewBunAssignmentRepositoryWithCache(db, nil, nil)
}

// NewBunAssignmentRepositoryWithCache constructs an AssignmentRepository with
// optional read-through caching.
func NewBunAssignmentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunAssignmentRepository {
	base := NewAssignmentRepository(db)
	return &BunAssignmentRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunAssignmentRepository) Ensure(ctx context.Context, itemID, brandID uuid.UUID) (*Assignment, error) {
	existing, err := r.GetForItem(ctx, itemID, brandID)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	record := &Assignment{
		ID:        uuid.New(),
		ItemID:    itemID,
		BrandID:   brandID,
		Status:    domain.AssignmentStatusPending,
		Priority:  999,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, &StorageError{Op: "create assignment", Err: err}
	}
	return created, nil
}

func (r *BunAssignmentRepository) GetForItem(ctx context.Context, itemID, brandID uuid.UUID) (*Assignment, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.item_id = ?", itemID).
				Where("?TableAlias.brand_id = ?", brandID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "assignment", itemID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "assignment", Key: itemID.String()}
	}
	return records[0], nil
}

func (r *BunAssignmentRepository) ListActive(ctx context.Context, brandID uuid.UUID, kind domain.Kind) ([]*Assignment, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Item").
				Where("?TableAlias.brand_id = ?", brandID).
				Where("?TableAlias.status IN (?)", bun.In([]string{
					string(domain.AssignmentStatusAccepted),
					string(domain.AssignmentStatusMandatory),
				})).
				Where("item.kind = ?", string(kind))
		}),
	)
	if err != nil {
		return nil, &StorageError{Op: "list assignments", Err: err}
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return &StorageError{Op: fmt.Sprintf("lookup %s %q", resource, key), Err: err}
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
