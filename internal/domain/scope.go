package domain

import "github.com/google/uuid"

// Scope identifies who owns a record: a single brand, or the platform
// operator ("global"). Global ownership is modelled explicitly rather than
// through a sentinel brand id so admin-owned records stay out of
// brand-scoped queries.
type Scope struct {
	brandID uuid.UUID
	global  bool
}

// BrandScope returns the scope owning records for a single brand.
func BrandScope(brandID uuid.UUID) Scope {
	return Scope{brandID: brandID}
}

// GlobalScope returns the platform-operator scope.
func GlobalScope() Scope {
	return Scope{global: true}
}

// IsGlobal reports whether the scope is platform-operator owned.
func (s Scope) IsGlobal() bool {
	return s.global
}

// BrandID returns the owning brand id and whether one is present.
func (s Scope) BrandID() (uuid.UUID, bool) {
	if s.global {
		return uuid.Nil, false
	}
	return s.brandID, true
}

// Covers reports whether a record owned by brandID is visible to this scope.
// The global scope covers everything.
func (s Scope) Covers(brandID uuid.UUID) bool {
	if s.global {
		return true
	}
	return s.brandID == brandID
}
