package content

import (
	"context"
	"sort"

	"github.com/goliatone/go-brand-cms/internal/domain"
)

// List returns the actor's view of a kind: owned records, optionally unioned
// with records reachable through an active assignment. Ordered by updated_at
// descending.
func (s *service) List(ctx context.Context, req ListRequest) ([]*ListedItem, error) {
	if !domain.IsValidKind(req.Kind) {
		return nil, ErrKindRequired
	}

	owned, err := s.items.List(ctx, ListFilter{
		Scope:  req.Actor.Scope,
		Kind:   req.Kind,
		Status: req.Status,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*ListedItem, 0, len(owned))
	seen := make(map[string]struct{}, len(owned))
	for _, item := range owned {
		seen[item.ID.String()] = struct{}{}
		out = append(out, &ListedItem{
			ContentItem: item,
			Source:      SourceBrand,
		})
	}

	if req.IncludeAssigned && domain.PolicyFor(req.Kind).Catalog {
		assigned, err := s.listAssigned(ctx, req, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, assigned...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// listAssigned projects the records granted through accepted or mandatory
// assignments, skipping records the brand already owns.
func (s *service) listAssigned(ctx context.Context, req ListRequest, seen map[string]struct{}) ([]*ListedItem, error) {
	brandID, ok := req.Actor.Scope.BrandID()
	if !ok || s.assignments == nil {
		return nil, nil
	}

	edges, err := s.assignments.ListActive(ctx, brandID, req.Kind)
	if err != nil {
		return nil, err
	}

	out := make([]*ListedItem, 0, len(edges))
	for _, edge := range edges {
		item := edge.Item
		if item == nil {
			continue
		}
		if _, owned := seen[item.ID.String()]; owned {
			continue
		}
		if req.Status != nil && item.Status != *req.Status {
			continue
		}

		listed := &ListedItem{
			ContentItem:      item,
			Source:           SourceAssignment,
			IsMandatory:      edge.Status == domain.AssignmentStatusMandatory,
			IsFeatured:       edge.IsFeatured,
			Priority:         edge.Priority,
			AssignmentStatus: &edge.Status,
		}
		if listed.AuthorType == nil {
			authorType := domain.AuthorTypeAdmin
			listed.ContentItem.AuthorType = &authorType
		}
		out = append(out, listed)
		seen[item.ID.String()] = struct{}{}
	}
	return out, nil
}
