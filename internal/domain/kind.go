package domain

import "strings"

// Kind identifies the closed set of content families the engine persists.
type Kind string

const (
	KindPage        Kind = "page"
	KindNews        Kind = "news"
	KindDestination Kind = "destination"
	KindTrip        Kind = "trip"
)

// Policy captures the per-kind rules the write coordinator applies uniformly
// instead of branching on the kind name.
type Policy struct {
	// RequiredFields are the payload fields a save must carry beyond title
	// and slug. The engine never inspects their values, only presence.
	RequiredFields []string

	// Catalog marks kinds that participate in the cross-brand catalog:
	// they carry a review sub-state and assignment bookkeeping.
	Catalog bool

	// Authored marks kinds that persist author_type/author_id stamped from
	// the caller identity.
	Authored bool
}

var kindPolicies = map[Kind]Policy{
	KindPage:        {},
	KindNews:        {Catalog: true, Authored: true, RequiredFields: []string{"content"}},
	KindDestination: {Catalog: true, Authored: true, RequiredFields: []string{"content"}},
	KindTrip:        {Catalog: true, Authored: true, RequiredFields: []string{"content"}},
}

// ParseKind resolves a kind name, accepting the plural table-style aliases the
// builder UI sends ("news_items", "destinations", "trips", "pages").
func ParseKind(input string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "page", "pages":
		return KindPage, true
	case "news", "news_items", "news_item":
		return KindNews, true
	case "destination", "destinations":
		return KindDestination, true
	case "trip", "trips":
		return KindTrip, true
	}
	return "", false
}

// PolicyFor returns the policy record for a kind. Unknown kinds get the zero
// policy, which is the page behavior.
func PolicyFor(kind Kind) Policy {
	return kindPolicies[kind]
}

// IsValidKind reports whether the kind is a member of the closed set.
func IsValidKind(kind Kind) bool {
	_, ok := kindPolicies[kind]
	return ok
}

// Kinds returns the closed set of known kinds.
func Kinds() []Kind {
	return []Kind{KindPage, KindNews, KindDestination, KindTrip}
}
