package domain

import "strings"

// Status is the draft/publish lifecycle state persisted on content records.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// NormalizeStatus coerces arbitrary status strings into a known representation,
// defaulting to draft.
func NormalizeStatus(input string) Status {
	status := Status(strings.ToLower(strings.TrimSpace(input)))
	switch status {
	case StatusDraft, StatusPublished:
		return status
	default:
		return StatusDraft
	}
}

// IsValidStatus reports whether the input names a known lifecycle status.
func IsValidStatus(input string) bool {
	switch Status(strings.ToLower(strings.TrimSpace(input))) {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// CatalogStatus is the cross-brand catalog review sub-state. It runs parallel
// to Status: an item can be published for its owning brand while still pending
// catalog review.
type CatalogStatus string

const (
	CatalogStatusPending  CatalogStatus = "pending"
	CatalogStatusApproved CatalogStatus = "approved"
	CatalogStatusRejected CatalogStatus = "rejected"
)

// AssignmentStatus tracks the state of a cross-brand visibility grant.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusMandatory AssignmentStatus = "mandatory"
)

// Active reports whether the assignment grants visibility. Mandatory
// assignments are active even when never explicitly accepted.
func (s AssignmentStatus) Active() bool {
	return s == AssignmentStatusAccepted || s == AssignmentStatusMandatory
}

// AuthorType records whether a record was authored by the platform operator or
// by the owning brand.
type AuthorType string

const (
	AuthorTypeAdmin AuthorType = "admin"
	AuthorTypeBrand AuthorType = "brand"
)
