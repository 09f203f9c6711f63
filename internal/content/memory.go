package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
)

// MemoryItemRepository is an in-memory ItemRepository for scaffolding and
// tests. The slug index is brand-scoped; global records are indexed under the
// nil brand.
type MemoryItemRepository struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]*ContentItem
	slugIndex map[string]uuid.UUID
}

// NewMemoryItemRepository creates an empty in-memory item repository.
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		items:     make(map[uuid.UUID]*ContentItem),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func slugKey(brandID uuid.UUID, kind domain.Kind, slug string) string {
	return fmt.Sprintf("%s/%s/%s", brandID, kind, strings.ToLower(slug))
}

// Create inserts the supplied record.
func (m *MemoryItemRepository) Create(_ context.Context, record *ContentItem) (*ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneItem(record)
	m.items[copied.ID] = copied
	m.slugIndex[slugKey(copied.BrandID, copied.Kind, copied.Slug)] = copied.ID
	return cloneItem(copied), nil
}

// GetByID retrieves a record by identifier.
func (m *MemoryItemRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content item", Key: id.String()}
	}
	return cloneItem(rec), nil
}

// GetBySlug retrieves a brand-owned record by slug under (brand, kind).
func (m *MemoryItemRepository) GetBySlug(_ context.Context, brandID uuid.UUID, kind domain.Kind, slug string) (*ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugKey(brandID, kind, slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "content item", Key: slug}
	}
	rec := m.items[id]
	if rec == nil || rec.IsGlobal {
		return nil, &NotFoundError{Resource: "content item", Key: slug}
	}
	return cloneItem(rec), nil
}

// GetGlobalBySlug retrieves a platform-owned record by slug under kind.
// Global records are indexed under the nil brand.
func (m *MemoryItemRepository) GetGlobalBySlug(_ context.Context, kind domain.Kind, slug string) (*ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugKey(uuid.Nil, kind, slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "content item", Key: slug}
	}
	rec := m.items[id]
	if rec == nil || !rec.IsGlobal {
		return nil, &NotFoundError{Resource: "content item", Key: slug}
	}
	return cloneItem(rec), nil
}

// List returns records matching the filter, most recently updated first.
func (m *MemoryItemRepository) List(_ context.Context, filter ListFilter) ([]*ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentItem, 0, len(m.items))
	for _, rec := range m.items {
		if rec.Kind != filter.Kind {
			continue
		}
		if brandID, ok := filter.Scope.BrandID(); ok {
			if rec.IsGlobal || rec.BrandID != brandID {
				continue
			}
		} else if !rec.IsGlobal {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		out = append(out, cloneItem(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// UpdateVersioned replaces the stored record when its version still matches
// expected and bumps it by one; otherwise it returns *ConflictError.
func (m *MemoryItemRepository) UpdateVersioned(_ context.Context, record *ContentItem, expected int64) (*ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "content item", Key: record.ID.String()}
	}
	if existing.Version != expected {
		return nil, &ConflictError{Resource: "content item", Key: record.ID.String(), Expected: expected}
	}

	copied := cloneItem(record)
	copied.Version = expected + 1
	delete(m.slugIndex, slugKey(existing.BrandID, existing.Kind, existing.Slug))
	m.items[copied.ID] = copied
	m.slugIndex[slugKey(copied.BrandID, copied.Kind, copied.Slug)] = copied.ID
	return cloneItem(copied), nil
}

// Delete removes the record if present.
func (m *MemoryItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[id]
	if !ok {
		return &NotFoundError{Resource: "content item", Key: id.String()}
	}
	delete(m.slugIndex, slugKey(existing.BrandID, existing.Kind, existing.Slug))
	delete(m.items, id)
	return nil
}

func cloneItem(src *ContentItem) *ContentItem {
	if src == nil {
		return nil
	}

	copied := *src
	copied.Content = cloneMap(src.Content)
	if src.CatalogStatus != nil {
		status := *src.CatalogStatus
		copied.CatalogStatus = &status
	}
	if src.AuthorType != nil {
		at := *src.AuthorType
		copied.AuthorType = &at
	}
	if src.AuthorID != nil {
		id := *src.AuthorID
		copied.AuthorID = &id
	}
	if src.PublishedAt != nil {
		ts := *src.PublishedAt
		copied.PublishedAt = &ts
	}
	return &copied
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// MemoryAssignmentRepository is an in-memory AssignmentRepository.
type MemoryAssignmentRepository struct {
	mu    sync.RWMutex
	edges map[uuid.UUID]*Assignment

	// Items supplies the related item for ListActive kind filtering.
	Items *MemoryItemRepository
}

// NewMemoryAssignmentRepository creates an empty in-memory assignment
// repository backed by the supplied item repository.
func NewMemoryAssignmentRepository(items *MemoryItemRepository) *MemoryAssignmentRepository {
	return &MemoryAssignmentRepository{
		edges: make(map[uuid.UUID]*Assignment),
		Items: items,
	}
}

// Ensure creates the (item, brand) edge when absent and leaves an existing
// edge untouched.
func (m *MemoryAssignmentRepository) Ensure(ctx context.Context, itemID, brandID uuid.UUID) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, edge := range m.edges {
		if edge.ItemID == itemID && edge.BrandID == brandID {
			return cloneAssignment(edge), nil
		}
	}

	record := &Assignment{
		ID:       uuid.New(),
		ItemID:   itemID,
		BrandID:  brandID,
		Status:   domain.AssignmentStatusPending,
		Priority: 999,
	}
	m.edges[record.ID] = cloneAssignment(record)
	return record, nil
}

// Put inserts or replaces an edge; tests use it to seed accepted assignments.
func (m *MemoryAssignmentRepository) Put(edge *Assignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if edge.ID == uuid.Nil {
		edge.ID = uuid.New()
	}
	m.edges[edge.ID] = cloneAssignment(edge)
}

// GetForItem fetches the edge for (item, brand).
func (m *MemoryAssignmentRepository) GetForItem(_ context.Context, itemID, brandID uuid.UUID) (*Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, edge := range m.edges {
		if edge.ItemID == itemID && edge.BrandID == brandID {
			return cloneAssignment(edge), nil
		}
	}
	return nil, &NotFoundError{Resource: "assignment", Key: itemID.String()}
}

// ListActive returns accepted and mandatory edges for the brand, with the
// related item populated and filtered by kind.
func (m *MemoryAssignmentRepository) ListActive(ctx context.Context, brandID uuid.UUID, kind domain.Kind) ([]*Assignment, error) {
	m.mu.RLock()
	edges := make([]*Assignment, 0, len(m.edges))
	for _, edge := range m.edges {
		if edge.BrandID == brandID && edge.Status.Active() {
			edges = append(edges, cloneAssignment(edge))
		}
	}
	m.mu.RUnlock()

	out := make([]*Assignment, 0, len(edges))
	for _, edge := range edges {
		if m.Items == nil {
			continue
		}
		item, err := m.Items.GetByID(ctx, edge.ItemID)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if item.Kind != kind {
			continue
		}
		edge.Item = item
		out = append(out, edge)
	}
	return out, nil
}

func cloneAssignment(src *Assignment) *Assignment {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Item = cloneItem(src.Item)
	return &copied
}
