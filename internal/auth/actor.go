package auth

import (
	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
)

// Actor is the authenticated caller as seen by the write paths. Admin actors
// may operate on any scope, including the global one; brand actors only on
// their own.
type Actor struct {
	Scope     domain.Scope
	SubjectID uuid.UUID
	Admin     bool
}

// ActorFromClaims derives an actor from verified token claims.
func ActorFromClaims(claims Claims) Actor {
	return Actor{
		Scope:     domain.BrandScope(claims.BrandID),
		SubjectID: claims.SubjectID,
		Admin:     claims.HasScope(ScopeAdmin),
	}
}

// Covers reports whether the actor may mutate records under the given scope.
func (a Actor) Covers(scope domain.Scope) bool {
	if a.Admin {
		return true
	}
	if scope.IsGlobal() {
		return false
	}
	want, _ := scope.BrandID()
	have, ok := a.Scope.BrandID()
	return ok && want == have
}
