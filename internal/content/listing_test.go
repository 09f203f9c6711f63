package content

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
)

func seedItem(t *testing.T, items *MemoryItemRepository, record *ContentItem) *ContentItem {
	t.Helper()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Version == 0 {
		record.Version = 1
	}
	if record.Status == "" {
		record.Status = domain.StatusDraft
	}
	created, err := items.Create(context.Background(), record)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return created
}

func TestListOwnedOrderedByUpdatedAt(t *testing.T) {
	svc, items, _ := newTestService(t)
	brand := uuid.New()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	older := seedItem(t, items, &ContentItem{
		BrandID: brand, Kind: domain.KindPage, Slug: "older", Title: "Older",
		UpdatedAt: base,
	})
	newer := seedItem(t, items, &ContentItem{
		BrandID: brand, Kind: domain.KindPage, Slug: "newer", Title: "Newer",
		UpdatedAt: base.Add(time.Hour),
	})
	seedItem(t, items, &ContentItem{
		BrandID: uuid.New(), Kind: domain.KindPage, Slug: "foreign", Title: "Foreign",
		UpdatedAt: base.Add(2 * time.Hour),
	})

	out, err := svc.List(context.Background(), ListRequest{
		Actor: brandActor(brand),
		Kind:  domain.KindPage,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 owned items, got %d", len(out))
	}
	if out[0].ID != newer.ID || out[1].ID != older.ID {
		t.Fatalf("expected updated_at descending order, got %s then %s", out[0].Slug, out[1].Slug)
	}
	for _, item := range out {
		if item.Source != SourceBrand {
			t.Fatalf("expected brand source, got %s", item.Source)
		}
	}
}

func TestListStatusFilter(t *testing.T) {
	svc, items, _ := newTestService(t)
	brand := uuid.New()

	seedItem(t, items, &ContentItem{
		BrandID: brand, Kind: domain.KindPage, Slug: "draft", Title: "Draft",
		Status: domain.StatusDraft,
	})
	published := seedItem(t, items, &ContentItem{
		BrandID: brand, Kind: domain.KindPage, Slug: "live", Title: "Live",
		Status: domain.StatusPublished,
	})

	wantStatus := domain.StatusPublished
	out, err := svc.List(context.Background(), ListRequest{
		Actor:  brandActor(brand),
		Kind:   domain.KindPage,
		Status: &wantStatus,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ID != published.ID {
		t.Fatalf("expected only the published item, got %d items", len(out))
	}
}

func TestListIncludeAssignedUnion(t *testing.T) {
	svc, items, assignments := newTestService(t)
	brand := uuid.New()
	otherBrand := uuid.New()
	ctx := context.Background()

	owned := seedItem(t, items, &ContentItem{
		BrandID: brand, Kind: domain.KindTrip, Slug: "own-tour", Title: "Own Tour",
	})
	accepted := seedItem(t, items, &ContentItem{
		BrandID: otherBrand, Kind: domain.KindTrip, Slug: "shared-tour", Title: "Shared Tour",
	})
	mandatory := seedItem(t, items, &ContentItem{
		BrandID: otherBrand, Kind: domain.KindTrip, Slug: "flagship-tour", Title: "Flagship Tour",
	})
	pendingOnly := seedItem(t, items, &ContentItem{
		BrandID: otherBrand, Kind: domain.KindTrip, Slug: "pending-tour", Title: "Pending Tour",
	})

	assignments.Put(&Assignment{ItemID: accepted.ID, BrandID: brand, Status: domain.AssignmentStatusAccepted})
	assignments.Put(&Assignment{ItemID: mandatory.ID, BrandID: brand, Status: domain.AssignmentStatusMandatory})
	assignments.Put(&Assignment{ItemID: pendingOnly.ID, BrandID: brand, Status: domain.AssignmentStatusPending})

	out, err := svc.List(ctx, ListRequest{
		Actor:           brandActor(brand),
		Kind:            domain.KindTrip,
		IncludeAssigned: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected owned + accepted + mandatory, got %d", len(out))
	}

	byID := map[uuid.UUID]*ListedItem{}
	for _, item := range out {
		byID[item.ID] = item
	}
	if byID[owned.ID] == nil || byID[owned.ID].Source != SourceBrand {
		t.Fatal("owned item missing or mislabeled")
	}
	if byID[accepted.ID] == nil || byID[accepted.ID].Source != SourceAssignment {
		t.Fatal("accepted assignment missing or mislabeled")
	}
	if byID[mandatory.ID] == nil || !byID[mandatory.ID].IsMandatory {
		t.Fatal("mandatory assignment must appear and be flagged")
	}
	if byID[pendingOnly.ID] != nil {
		t.Fatal("pending assignment must not appear")
	}
	if byID[accepted.ID].AuthorType == nil || *byID[accepted.ID].AuthorType != domain.AuthorTypeAdmin {
		t.Fatal("assigned items without authorship default to admin")
	}
}

func TestListDeduplicatesOwnedAndAssigned(t *testing.T) {
	svc, items, assignments := newTestService(t)
	brand := uuid.New()
	ctx := context.Background()

	owned := seedItem(t, items, &ContentItem{
		BrandID: brand, Kind: domain.KindTrip, Slug: "own-tour", Title: "Own Tour",
	})
	assignments.Put(&Assignment{ItemID: owned.ID, BrandID: brand, Status: domain.AssignmentStatusMandatory})

	out, err := svc.List(ctx, ListRequest{
		Actor:           brandActor(brand),
		Kind:            domain.KindTrip,
		IncludeAssigned: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected de-duplicated listing, got %d items", len(out))
	}
	if out[0].Source != SourceBrand {
		t.Fatal("owned copy wins over the assigned edge")
	}
}

func TestListIgnoresAssignedForNonCatalogKinds(t *testing.T) {
	svc, items, assignments := newTestService(t)
	brand := uuid.New()

	foreign := seedItem(t, items, &ContentItem{
		BrandID: uuid.New(), Kind: domain.KindPage, Slug: "landing", Title: "Landing",
	})
	assignments.Put(&Assignment{ItemID: foreign.ID, BrandID: brand, Status: domain.AssignmentStatusAccepted})

	out, err := svc.List(context.Background(), ListRequest{
		Actor:           brandActor(brand),
		Kind:            domain.KindPage,
		IncludeAssigned: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("pages do not participate in assignments, got %d items", len(out))
	}
}
