package auth

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Capability scopes recognized by the engine. Read gates the read-mostly
// endpoint family, write gates mutations, admin unlocks cross-brand and
// global-scope operations.
const (
	ScopeRead  = "content:read"
	ScopeWrite = "content:write"
	ScopeAdmin = "content:admin"
)

// Reason codes carried by auth failures.
const (
	ReasonMissingToken      = "missing_or_malformed"
	ReasonInvalidSignature  = "invalid_signature"
	ReasonMissingTenant     = "missing_tenant"
	ReasonInsufficientScope = "insufficient_scope"
	ReasonForbidden         = "forbidden"
)

// Error is the auth failure type surfaced by the guard and by ownership
// checks downstream.
type Error struct {
	Reason string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("auth: %s", e.Reason)
	}
	return fmt.Sprintf("auth: %s: %s", e.Reason, e.Detail)
}

// ErrForbidden builds the tenant-mismatch failure used by write paths.
func ErrForbidden(detail string) *Error {
	return &Error{Reason: ReasonForbidden, Detail: detail}
}

// Claims is the validated identity extracted from a bearer token.
type Claims struct {
	BrandID   uuid.UUID
	SubjectID uuid.UUID
	Scopes    []string
}

// HasScope reports whether the token carries the named capability.
func (c Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	BrandID string   `json:"brand_id"`
	UserID  string   `json:"user_id,omitempty"`
	Scope   []string `json:"scope,omitempty"`
}

// Guard validates HS256 bearer tokens and extracts brand-scoped claims.
// Validation is pure: no storage access, no side effects.
type Guard struct {
	secret []byte
	issuer string
}

// GuardOption configures the guard at construction time.
type GuardOption func(*Guard)

// WithIssuer pins the expected issuer claim. Tokens from other issuers fail
// with an invalid_signature reason.
func WithIssuer(issuer string) GuardOption {
	return func(g *Guard) {
		g.issuer = strings.TrimSpace(issuer)
	}
}

// NewGuard constructs a token guard over a shared HMAC secret.
func NewGuard(secret string, opts ...GuardOption) *Guard {
	g := &Guard{secret: []byte(secret)}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Verify validates the raw token and, when requiredScope is non-empty, checks
// the claims carry it. Tokens without a scope list pass scope checks only when
// no scope is required.
func (g *Guard) Verify(raw string, requiredScope string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, &Error{Reason: ReasonMissingToken}
	}

	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return Claims{}, &Error{Reason: ReasonInvalidSignature, Detail: err.Error()}
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, &Error{Reason: ReasonInvalidSignature, Detail: "invalid token claims"}
	}

	if g.issuer != "" && claims.Issuer != g.issuer {
		return Claims{}, &Error{Reason: ReasonInvalidSignature, Detail: "invalid issuer"}
	}

	brandID, err := uuid.Parse(strings.TrimSpace(claims.BrandID))
	if err != nil || brandID == uuid.Nil {
		return Claims{}, &Error{Reason: ReasonMissingTenant}
	}

	subject := strings.TrimSpace(claims.UserID)
	if subject == "" {
		subject = strings.TrimSpace(claims.Subject)
	}
	subjectID, _ := uuid.Parse(subject)

	out := Claims{
		BrandID:   brandID,
		SubjectID: subjectID,
		Scopes:    slices.Clone(claims.Scope),
	}

	if requiredScope != "" && !out.HasScope(requiredScope) {
		return Claims{}, &Error{
			Reason: ReasonInsufficientScope,
			Detail: fmt.Sprintf("%s required", requiredScope),
		}
	}

	return out, nil
}

// TokenFromRequest extracts the raw bearer token from the Authorization
// header, falling back to the token query parameter used by deep-linked
// builder URLs.
func TokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Sign mints a token for the supplied claims. Used by the server bootstrap
// and by tests; production tokens are expected from the external issuer.
func (g *Guard) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	payload := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.SubjectID.String(),
			Issuer:    g.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		BrandID: claims.BrandID.String(),
		Scope:   claims.Scopes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
