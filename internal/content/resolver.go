package content

import (
	"context"
	"strings"

	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
)

// Lookup is the narrow read surface the resolver needs. Both repository
// implementations satisfy it.
type Lookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ContentItem, error)
	GetBySlug(ctx context.Context, brandID uuid.UUID, kind domain.Kind, slug string) (*ContentItem, error)
}

// TargetRef carries the identity hints an incoming request may supply. Any
// subset may be present; resolution precedence is fixed.
type TargetRef struct {
	// ID is an explicit primary key from the request body or query.
	ID uuid.UUID

	// Slug is an explicit brand-scoped slug from the request body or query.
	Slug string

	// PathSegment is the trailing URL path segment, which clients use
	// interchangeably as a slug or an id.
	PathSegment string

	// RouteName is the handler's own path segment; a PathSegment equal to
	// it is a routing artifact, not an identity.
	RouteName string
}

// IsZero reports whether the ref carries no identity hints at all.
func (r TargetRef) IsZero() bool {
	return r.ID == uuid.Nil && strings.TrimSpace(r.Slug) == "" && !r.hasPathSegment()
}

func (r TargetRef) hasPathSegment() bool {
	segment := strings.TrimSpace(r.PathSegment)
	return segment != "" && !strings.EqualFold(segment, strings.TrimSpace(r.RouteName))
}

// ResolveTarget determines which existing record a request addresses.
//
// Precedence, in order: explicit id (globally unique, brand ownership is
// checked by the caller before mutating); explicit slug under (brand, kind);
// trailing path segment tried as a slug first and as an id second, because
// slugs are the user-facing identity and ids are often absent from the
// client. Returns NotFoundError when nothing matches; write paths interpret
// that as "create new", update/publish/delete paths as a 404.
func ResolveTarget(ctx context.Context, lookup Lookup, brandID uuid.UUID, kind domain.Kind, ref TargetRef) (*ContentItem, error) {
	if ref.ID != uuid.Nil {
		return lookup.GetByID(ctx, ref.ID)
	}

	if slug := strings.TrimSpace(ref.Slug); slug != "" {
		return lookup.GetBySlug(ctx, brandID, kind, slug)
	}

	if ref.hasPathSegment() {
		segment := strings.TrimSpace(ref.PathSegment)

		record, err := lookup.GetBySlug(ctx, brandID, kind, segment)
		if err == nil {
			return record, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}

		if id, parseErr := uuid.Parse(segment); parseErr == nil {
			return lookup.GetByID(ctx, id)
		}
		return nil, &NotFoundError{Resource: string(kind), Key: segment}
	}

	return nil, &NotFoundError{Resource: string(kind)}
}
