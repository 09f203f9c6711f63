package content

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/goliatone/go-brand-cms/internal/logging"
	"github.com/goliatone/go-brand-cms/pkg/interfaces"
	slugpkg "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Actor is the authenticated caller as seen by the coordinator.
type Actor = auth.Actor

func authorTypeFor(actor Actor) domain.AuthorType {
	if actor.Admin {
		return domain.AuthorTypeAdmin
	}
	return domain.AuthorTypeBrand
}

// canMutate reports whether the actor may write the record.
func canMutate(actor Actor, record *ContentItem) bool {
	return actor.Covers(record.Scope())
}

// SaveRequest carries a create-or-update write. Target may be empty, in which
// case a missing match means "create new".
type SaveRequest struct {
	Actor   Actor
	Kind    domain.Kind
	Target  TargetRef
	BrandID uuid.UUID
	Global  bool
	Title   string
	Slug    string
	Content map[string]any
	Status  *domain.Status

	// AuthorID is honored only for admin actors.
	AuthorID *uuid.UUID
}

// Validate checks field-level requirements before storage is touched.
func (r SaveRequest) Validate() error {
	errs := validation.Errors{}
	if !domain.IsValidKind(r.Kind) {
		errs["kind"] = validation.NewError("content.save.kind_unknown", "unknown content kind")
	}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = validation.NewError("content.save.title_required", "title is required")
	}
	if strings.TrimSpace(r.Slug) == "" && r.Target.IsZero() {
		errs["slug"] = validation.NewError("content.save.slug_required", "slug is required")
	}
	for _, field := range domain.PolicyFor(r.Kind).RequiredFields {
		if field == "content" && len(r.Content) == 0 && r.Target.IsZero() {
			errs["content"] = validation.NewError("content.save.content_required", "content payload is required")
		}
	}
	if r.Status != nil && !domain.IsValidStatus(string(*r.Status)) {
		errs["status"] = validation.NewError("content.save.status_invalid", "status must be draft or published")
	}
	return errs.Filter()
}

// UpdateRequest targets an existing record; resolution failure is a 404, not
// an implicit create.
type UpdateRequest struct {
	Actor   Actor
	Kind    domain.Kind
	Target  TargetRef
	Title   string
	Slug    string
	Content map[string]any
	Status  *domain.Status
}

// PublishRequest transitions an existing record to published. Replacement
// field values are optional; when present they land in the same write.
type PublishRequest struct {
	Actor   Actor
	Kind    domain.Kind
	Target  TargetRef
	Title   string
	Content map[string]any
}

// DeleteRequest removes a record by id.
type DeleteRequest struct {
	Actor Actor
	Kind  domain.Kind
	ID    uuid.UUID
}

// GetRequest fetches a single record.
type GetRequest struct {
	Actor  Actor
	Kind   domain.Kind
	Target TargetRef
}

// ListRequest is a brand-scoped listing query.
type ListRequest struct {
	Actor           Actor
	Kind            domain.Kind
	Status          *domain.Status
	IncludeAssigned bool
}

// SubmitRequest places a catalog-kind record into the pending review state.
type SubmitRequest struct {
	Actor  Actor
	Kind   domain.Kind
	Target TargetRef
}

// ReviewRequest records an admin decision on a pending catalog submission.
type ReviewRequest struct {
	Actor    Actor
	Kind     domain.Kind
	Target   TargetRef
	Decision domain.CatalogStatus
}

// Service is the write coordinator: every handler funnels its resolved
// identity and desired fields through here.
type Service interface {
	Save(ctx context.Context, req SaveRequest) (*WriteResult, error)
	Update(ctx context.Context, req UpdateRequest) (*WriteResult, error)
	Publish(ctx context.Context, req PublishRequest) (*WriteResult, error)
	Delete(ctx context.Context, req DeleteRequest) error
	Get(ctx context.Context, req GetRequest) (*ContentItem, error)
	List(ctx context.Context, req ListRequest) ([]*ListedItem, error)
	SubmitToCatalog(ctx context.Context, req SubmitRequest) (*WriteResult, error)
	ReviewCatalog(ctx context.Context, req ReviewRequest) (*WriteResult, error)
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

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger overrides the logger used for assignment bookkeeping failures.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// service implements Service.
type service struct {
	items       ItemRepository
	assignments AssignmentRepository
	now         func() time.Time
	id          IDGenerator
	logger      interfaces.Logger
}

// NewService constructs the write coordinator with the required dependencies.
func NewService(items ItemRepository, assignments AssignmentRepository, opts ...ServiceOption) Service {
	s := &service{
		items:       items,
		assignments: assignments,
		now:         time.Now,
		id:          uuid.New,
		logger:      logging.NoOp(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Save performs create-or-update. A missing target inserts a new draft at
// version 1; an existing target merges the supplied fields and bumps the
// version by one through a compare-and-swap.
func (s *service) Save(ctx context.Context, req SaveRequest) (*WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkWriteScope(req.Actor, req.BrandID, req.Global); err != nil {
		return nil, err
	}

	target, err := s.resolveOptional(ctx, req.Actor, req.Kind, req.Target)
	if err != nil {
		return nil, err
	}

	// A fresh slug colliding with an existing record under the same scope
	// means the caller addressed that record. Global records collide under
	// the platform scope, brand records under the write brand.
	if target == nil {
		normalized, normErr := normalizeSlug(req.Slug)
		if normErr != nil {
			return nil, normErr
		}

		var (
			existing  *ContentItem
			lookupErr error
		)
		if req.Global {
			existing, lookupErr = s.items.GetGlobalBySlug(ctx, req.Kind, normalized)
		} else if brandID, ok := s.writeBrand(req.Actor, req.BrandID); ok {
			existing, lookupErr = s.items.GetBySlug(ctx, brandID, req.Kind, normalized)
		}
		if lookupErr != nil && !IsNotFound(lookupErr) {
			return nil, lookupErr
		}
		if lookupErr == nil && existing != nil {
			target = existing
		}
	}

	if target == nil {
		return s.create(ctx, req)
	}

	if !canMutate(req.Actor, target) {
		return nil, auth.ErrForbidden("record belongs to another brand")
	}
	return s.merge(ctx, req.Actor, target, mergeFields{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		Status:   req.Status,
		AuthorID: req.AuthorID,
	})
}

// Update is save against a mandatory existing target.
func (s *service) Update(ctx context.Context, req UpdateRequest) (*WriteResult, error) {
	if !domain.IsValidKind(req.Kind) {
		return nil, ErrKindRequired
	}
	if req.Target.IsZero() {
		return nil, ErrTargetRequired
	}

	target, err := s.resolve(ctx, req.Actor, req.Kind, req.Target)
	if err != nil {
		return nil, err
	}
	if !canMutate(req.Actor, target) {
		return nil, auth.ErrForbidden("record belongs to another brand")
	}
	return s.merge(ctx, req.Actor, target, mergeFields{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Status:  req.Status,
	})
}

// Publish transitions the target to published. Idempotent in status, never in
// version; published_at is stamped once and never cleared.
func (s *service) Publish(ctx context.Context, req PublishRequest) (*WriteResult, error) {
	if !domain.IsValidKind(req.Kind) {
		return nil, ErrKindRequired
	}
	if req.Target.IsZero() {
		return nil, ErrTargetRequired
	}

	target, err := s.resolve(ctx, req.Actor, req.Kind, req.Target)
	if err != nil {
		return nil, err
	}
	if !canMutate(req.Actor, target) {
		return nil, auth.ErrForbidden("record belongs to another brand")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(target.Title)
	}
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := s.now().UTC()
	expected := target.Version

	target.Title = title
	if req.Content != nil {
		target.Content = req.Content
	}
	target.Status = domain.StatusPublished
	if target.PublishedAt == nil {
		target.PublishedAt = &now
	}
	target.UpdatedAt = now

	updated, err := s.items.UpdateVersioned(ctx, target, expected)
	if err != nil {
		return nil, err
	}
	return writeResult(updated, false), nil
}

// Delete removes the record after an ownership check.
func (s *service) Delete(ctx context.Context, req DeleteRequest) error {
	if req.ID == uuid.Nil {
		return ErrIDRequired
	}

	target, err := s.items.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if target.Kind != req.Kind {
		return &NotFoundError{Resource: string(req.Kind), Key: req.ID.String()}
	}
	if !canMutate(req.Actor, target) {
		return auth.ErrForbidden("record belongs to another brand")
	}
	return s.items.Delete(ctx, req.ID)
}

// Get fetches a single record visible to the actor: owned, global, or
// reachable through an active assignment.
func (s *service) Get(ctx context.Context, req GetRequest) (*ContentItem, error) {
	if !domain.IsValidKind(req.Kind) {
		return nil, ErrKindRequired
	}
	if req.Target.IsZero() {
		return nil, ErrTargetRequired
	}

	target, err := s.resolve(ctx, req.Actor, req.Kind, req.Target)
	if err != nil {
		return nil, err
	}
	if canMutate(req.Actor, target) || target.IsGlobal {
		return target, nil
	}

	brandID, ok := req.Actor.Scope.BrandID()
	if !ok {
		return nil, auth.ErrForbidden("record belongs to another brand")
	}
	edge, err := s.assignments.GetForItem(ctx, target.ID, brandID)
	if err != nil || !edge.Status.Active() {
		return nil, auth.ErrForbidden("record belongs to another brand")
	}
	return target, nil
}

// SubmitToCatalog marks a catalog-kind record as pending review.
func (s *service) SubmitToCatalog(ctx context.Context, req SubmitRequest) (*WriteResult, error) {
	target, err := s.catalogTarget(ctx, req.Actor, req.Kind, req.Target)
	if err != nil {
		return nil, err
	}

	pending := domain.CatalogStatusPending
	return s.setCatalogStatus(ctx, target, pending)
}

// ReviewCatalog records an admin approval or rejection.
func (s *service) ReviewCatalog(ctx context.Context, req ReviewRequest) (*WriteResult, error) {
	if !req.Actor.Admin {
		return nil, auth.ErrForbidden("catalog review requires an admin caller")
	}
	if req.Decision != domain.CatalogStatusApproved && req.Decision != domain.CatalogStatusRejected {
		return nil, ErrDecisionInvalid
	}

	target, err := s.catalogTarget(ctx, req.Actor, req.Kind, req.Target)
	if err != nil {
		return nil, err
	}
	return s.setCatalogStatus(ctx, target, req.Decision)
}

func (s *service) catalogTarget(ctx context.Context, actor Actor, kind domain.Kind, ref TargetRef) (*ContentItem, error) {
	if !domain.IsValidKind(kind) {
		return nil, ErrKindRequired
	}
	if !domain.PolicyFor(kind).Catalog {
		return nil, ErrNotCatalogKind
	}
	if ref.IsZero() {
		return nil, ErrTargetRequired
	}

	target, err := s.resolve(ctx, actor, kind, ref)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, target) {
		return nil, auth.ErrForbidden("record belongs to another brand")
	}
	return target, nil
}

func (s *service) setCatalogStatus(ctx context.Context, target *ContentItem, status domain.CatalogStatus) (*WriteResult, error) {
	expected := target.Version
	target.CatalogStatus = &status
	target.UpdatedAt = s.now().UTC()

	updated, err := s.items.UpdateVersioned(ctx, target, expected)
	if err != nil {
		return nil, err
	}
	return writeResult(updated, false), nil
}

// checkWriteScope rejects payload brand ids the actor does not control.
func (s *service) checkWriteScope(actor Actor, payloadBrand uuid.UUID, global bool) error {
	if actor.Admin {
		return nil
	}
	if global {
		return auth.ErrForbidden("global records require an admin caller")
	}
	brandID, ok := actor.Scope.BrandID()
	if !ok {
		return auth.ErrForbidden("caller has no brand scope")
	}
	if payloadBrand != uuid.Nil && payloadBrand != brandID {
		return auth.ErrForbidden("payload brand does not match token brand")
	}
	return nil
}

// writeBrand picks the brand a create lands under: the payload brand for
// admin actors, the token brand otherwise.
func (s *service) writeBrand(actor Actor, payloadBrand uuid.UUID) (uuid.UUID, bool) {
	if actor.Admin {
		if payloadBrand != uuid.Nil {
			return payloadBrand, true
		}
		return actor.Scope.BrandID()
	}
	return actor.Scope.BrandID()
}

func (s *service) create(ctx context.Context, req SaveRequest) (*WriteResult, error) {
	normalized, err := normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &ContentItem{
		ID:        s.id(),
		Kind:      req.Kind,
		Slug:      normalized,
		Title:     strings.TrimSpace(req.Title),
		Status:    domain.StatusDraft,
		Version:   1,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Status != nil {
		record.Status = *req.Status
		if record.Status == domain.StatusPublished {
			record.PublishedAt = &now
		}
	}
	if req.Global {
		if !req.Actor.Admin {
			return nil, auth.ErrForbidden("global records require an admin caller")
		}
		record.IsGlobal = true
	} else {
		brandID, ok := s.writeBrand(req.Actor, req.BrandID)
		if !ok {
			return nil, ErrBrandRequired
		}
		record.BrandID = brandID
	}

	s.stampAuthorship(req.Actor, record, req.AuthorID)

	created, err := s.items.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.ensureAssignment(ctx, created)
	return writeResult(created, true), nil
}

// mergeFields is the subset of fields a save or update may carry. Empty
// values leave the stored field untouched.
type mergeFields struct {
	Title    string
	Slug     string
	Content  map[string]any
	Status   *domain.Status
	AuthorID *uuid.UUID
}

func (s *service) merge(ctx context.Context, actor Actor, target *ContentItem, fields mergeFields) (*WriteResult, error) {
	now := s.now().UTC()
	expected := target.Version

	if title := strings.TrimSpace(fields.Title); title != "" {
		target.Title = title
	}
	if raw := strings.TrimSpace(fields.Slug); raw != "" {
		normalized, err := normalizeSlug(raw)
		if err != nil {
			return nil, err
		}
		target.Slug = normalized
	}
	if fields.Content != nil {
		target.Content = fields.Content
	}
	if fields.Status != nil {
		target.Status = *fields.Status
		if target.Status == domain.StatusPublished && target.PublishedAt == nil {
			target.PublishedAt = &now
		}
	}
	if fields.AuthorID != nil && actor.Admin {
		target.AuthorID = fields.AuthorID
	}
	target.UpdatedAt = now

	updated, err := s.items.UpdateVersioned(ctx, target, expected)
	if err != nil {
		return nil, err
	}

	s.ensureAssignment(ctx, updated)
	return writeResult(updated, false), nil
}

// stampAuthorship assigns author fields from the caller identity for kinds
// that carry them. A caller-supplied author id is honored only for admins.
func (s *service) stampAuthorship(actor Actor, record *ContentItem, requested *uuid.UUID) {
	if !domain.PolicyFor(record.Kind).Authored {
		return
	}

	authorType := authorTypeFor(actor)
	record.AuthorType = &authorType

	authorID := actor.SubjectID
	if requested != nil && actor.Admin {
		authorID = *requested
	}
	if authorID != uuid.Nil {
		record.AuthorID = &authorID
	}
}

// ensureAssignment performs the best-effort assignment bookkeeping after a
// successful catalog-kind write. Failure is logged and never propagated.
func (s *service) ensureAssignment(ctx context.Context, record *ContentItem) {
	if !domain.PolicyFor(record.Kind).Catalog || record.IsGlobal || s.assignments == nil {
		return
	}

	if _, err := s.assignments.Ensure(ctx, record.ID, record.BrandID); err != nil {
		s.logger.Error("assignment bookkeeping failed",
			"item_id", record.ID.String(),
			"brand_id", record.BrandID.String(),
			"error", err,
		)
	}
}

// resolve requires an existing record of the requested kind. An explicit id
// is globally unique, so a record of another kind must read as absent rather
// than leak through a different kind's operations.
func (s *service) resolve(ctx context.Context, actor Actor, kind domain.Kind, ref TargetRef) (*ContentItem, error) {
	brandID, _ := actor.Scope.BrandID()
	target, err := ResolveTarget(ctx, s.items, brandID, kind, ref)
	if err != nil {
		return nil, err
	}
	if target.Kind != kind {
		return nil, &NotFoundError{Resource: string(kind), Key: target.ID.String()}
	}
	return target, nil
}

// resolveOptional treats NotFound as "no target" for the create path.
func (s *service) resolveOptional(ctx context.Context, actor Actor, kind domain.Kind, ref TargetRef) (*ContentItem, error) {
	if ref.IsZero() {
		return nil, nil
	}
	target, err := s.resolve(ctx, actor, kind, ref)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return target, nil
}

func normalizeSlug(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrSlugRequired
	}
	if slugpkg.IsValid(trimmed) {
		return trimmed, nil
	}
	normalized, err := slugpkg.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}

func writeResult(record *ContentItem, created bool) *WriteResult {
	return &WriteResult{
		ID:        record.ID,
		Slug:      record.Slug,
		Version:   record.Version,
		Status:    record.Status,
		UpdatedAt: record.UpdatedAt,
		Created:   created,
	}
}
