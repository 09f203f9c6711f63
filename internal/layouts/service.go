package layouts

import (
	"context"
	"time"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/goliatone/go-brand-cms/internal/logging"
	"github.com/goliatone/go-brand-cms/pkg/interfaces"
	"github.com/google/uuid"
)

// SaveDraftRequest upserts one section's draft payload.
type SaveDraftRequest struct {
	Actor   auth.Actor
	BrandID uuid.UUID
	Section Section
	Draft   map[string]any
}

// PublishRequest publishes one section. The rendered payload is supplied
// separately from the draft: header and footer publish HTML, menu publishes
// a structured payload.
type PublishRequest struct {
	Actor        auth.Actor
	BrandID      uuid.UUID
	Section      Section
	RenderedHTML string
	RenderedMenu map[string]any
}

// Service is the singleton writer for the per-brand layout record.
type Service interface {
	SaveDraft(ctx context.Context, req SaveDraftRequest) (*WriteResult, error)
	Publish(ctx context.Context, req PublishRequest) (*WriteResult, error)
	Get(ctx context.Context, actor auth.Actor, brandID uuid.UUID) (*Layout, error)
	Published(ctx context.Context, brandID uuid.UUID) (*PublishedLayout, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	layouts Repository
	now     func() time.Time
	logger  interfaces.Logger
}

// NewService constructs the layout writer.
func NewService(layouts Repository, opts ...ServiceOption) Service {
	s := &service{
		layouts: layouts,
		now:     time.Now,
		logger:  logging.NoOp(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SaveDraft upserts only the named section's draft. Published columns, the
// shared status and the shared version stay untouched so a draft on one
// section can never disturb another section's live content.
func (s *service) SaveDraft(ctx context.Context, req SaveDraftRequest) (*WriteResult, error) {
	record, created, err := s.getOrNew(ctx, req.Actor, req.BrandID, req.Section)
	if err != nil {
		return nil, err
	}

	switch req.Section {
	case SectionHeader:
		record.HeaderDraft = req.Draft
	case SectionFooter:
		record.FooterDraft = req.Draft
	case SectionMenu:
		record.MenuDraft = req.Draft
	}
	record.UpdatedAt = s.now().UTC()

	if created {
		saved, err := s.layouts.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		return writeResult(saved, req.Section), nil
	}

	saved, err := s.layouts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return writeResult(saved, req.Section), nil
}

// Publish writes the separately supplied rendered payload for one section,
// marks the singleton published and bumps the shared version through a
// compare-and-swap.
func (s *service) Publish(ctx context.Context, req PublishRequest) (*WriteResult, error) {
	record, created, err := s.getOrNew(ctx, req.Actor, req.BrandID, req.Section)
	if err != nil {
		return nil, err
	}

	switch req.Section {
	case SectionHeader:
		if req.RenderedHTML == "" {
			return nil, ErrPayloadRequired
		}
		record.HeaderHTML = req.RenderedHTML
	case SectionFooter:
		if req.RenderedHTML == "" {
			return nil, ErrPayloadRequired
		}
		record.FooterHTML = req.RenderedHTML
	case SectionMenu:
		if len(req.RenderedMenu) == 0 {
			return nil, ErrPayloadRequired
		}
		record.MenuPublished = req.RenderedMenu
	}

	now := s.now().UTC()
	record.Status = domain.StatusPublished
	if record.PublishedAt == nil {
		record.PublishedAt = &now
	}
	record.UpdatedAt = now

	if created {
		saved, err := s.layouts.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		return writeResult(saved, req.Section), nil
	}

	expected := record.Version
	saved, err := s.layouts.UpdateVersioned(ctx, record, expected)
	if err != nil {
		return nil, err
	}
	return writeResult(saved, req.Section), nil
}

// Get returns the full singleton, drafts included, for the builder UI.
func (s *service) Get(ctx context.Context, actor auth.Actor, brandID uuid.UUID) (*Layout, error) {
	if brandID == uuid.Nil {
		return nil, ErrBrandRequired
	}
	if !actor.Covers(domain.BrandScope(brandID)) {
		return nil, auth.ErrForbidden("layout belongs to another brand")
	}
	return s.layouts.Get(ctx, brandID)
}

// Published is the public projection. Brands with no layout row, or with a
// row that has only ever seen draft saves, get the zero value rather than an
// error, so storefronts render before first publish.
func (s *service) Published(ctx context.Context, brandID uuid.UUID) (*PublishedLayout, error) {
	if brandID == uuid.Nil {
		return nil, ErrBrandRequired
	}

	record, err := s.layouts.Get(ctx, brandID)
	if err != nil {
		if IsNotFound(err) {
			return &PublishedLayout{}, nil
		}
		return nil, err
	}
	if record.Status != domain.StatusPublished {
		return &PublishedLayout{}, nil
	}

	return &PublishedLayout{
		HeaderHTML: record.HeaderHTML,
		FooterHTML: record.FooterHTML,
		MenuJSON:   record.MenuPublished,
		Version:    record.Version,
	}, nil
}

// getOrNew loads the brand's singleton or builds a fresh one at version 1.
func (s *service) getOrNew(ctx context.Context, actor auth.Actor, brandID uuid.UUID, section Section) (*Layout, bool, error) {
	if brandID == uuid.Nil {
		return nil, false, ErrBrandRequired
	}
	if _, ok := ParseSection(string(section)); !ok {
		return nil, false, ErrSectionInvalid
	}
	if !actor.Covers(domain.BrandScope(brandID)) {
		return nil, false, auth.ErrForbidden("layout belongs to another brand")
	}

	record, err := s.layouts.Get(ctx, brandID)
	if err == nil {
		return record, false, nil
	}
	if !IsNotFound(err) {
		return nil, false, err
	}

	now := s.now().UTC()
	return &Layout{
		BrandID:   brandID,
		Status:    domain.StatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

func writeResult(record *Layout, section Section) *WriteResult {
	return &WriteResult{
		BrandID:   record.BrandID,
		Section:   section,
		Version:   record.Version,
		Status:    record.Status,
		UpdatedAt: record.UpdatedAt,
	}
}
