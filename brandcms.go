package brandcms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/di"
	"github.com/goliatone/go-brand-cms/internal/layouts"
	"github.com/goliatone/go-brand-cms/pkg/storage"
)

// ContentService exports the write coordinator contract for consumers of the
// brandcms package.
type ContentService = content.Service

// LayoutService exports the layout singleton contract.
type LayoutService = layouts.Service

// Guard exports the token guard.
type Guard = auth.Guard

// Actor exports the resolved caller identity.
type Actor = auth.Actor

// Module is the top level engine runtime façade.
type Module struct {
	container *di.Container
}

// New constructs the engine using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured write coordinator.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Layouts returns the configured layout service.
func (m *Module) Layouts() LayoutService {
	return m.container.LayoutService()
}

// Guard returns the configured token guard.
func (m *Module) Guard() *Guard {
	return m.container.Guard()
}

// Handler returns the mounted HTTP surface, CORS included.
func (m *Module) Handler() http.Handler {
	return m.container.API().Handler()
}

// Migrate provisions the database schema. It is a no-op on memory storage.
func (m *Module) Migrate(ctx context.Context) error {
	db := m.container.DB()
	if db == nil {
		return nil
	}
	return storage.CreateTables(ctx, db)
}

// Close releases container-owned resources.
func (m *Module) Close() error {
	return m.container.Close()
}
