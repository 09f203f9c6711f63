package layouts

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory layout store for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	layouts map[uuid.UUID]*Layout
}

// NewMemoryRepository creates an empty in-memory layout repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		layouts: make(map[uuid.UUID]*Layout),
	}
}

// Get fetches the singleton for a brand.
func (m *MemoryRepository) Get(_ context.Context, brandID uuid.UUID) (*Layout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.layouts[brandID]
	if !ok {
		return nil, &NotFoundError{BrandID: brandID.String()}
	}
	return cloneLayout(rec), nil
}

// Create inserts the singleton row for a brand.
func (m *MemoryRepository) Create(_ context.Context, record *Layout) (*Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneLayout(record)
	m.layouts[copied.BrandID] = copied
	return cloneLayout(copied), nil
}

// Update replaces the stored row without touching the version check.
func (m *MemoryRepository) Update(_ context.Context, record *Layout) (*Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.layouts[record.BrandID]; !ok {
		return nil, &NotFoundError{BrandID: record.BrandID.String()}
	}
	copied := cloneLayout(record)
	m.layouts[copied.BrandID] = copied
	return cloneLayout(copied), nil
}

// UpdateVersioned replaces the stored row when its version still matches
// expected and bumps it by one; otherwise it returns *ConflictError.
func (m *MemoryRepository) UpdateVersioned(_ context.Context, record *Layout, expected int64) (*Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.layouts[record.BrandID]
	if !ok {
		return nil, &NotFoundError{BrandID: record.BrandID.String()}
	}
	if existing.Version != expected {
		return nil, &ConflictError{BrandID: record.BrandID.String(), Expected: expected}
	}

	copied := cloneLayout(record)
	copied.Version = expected + 1
	m.layouts[copied.BrandID] = copied
	return cloneLayout(copied), nil
}

func cloneLayout(src *Layout) *Layout {
	if src == nil {
		return nil
	}

	copied := *src
	copied.HeaderDraft = cloneMap(src.HeaderDraft)
	copied.FooterDraft = cloneMap(src.FooterDraft)
	copied.MenuDraft = cloneMap(src.MenuDraft)
	copied.MenuPublished = cloneMap(src.MenuPublished)
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
