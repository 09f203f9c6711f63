package auth_test

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/google/uuid"
)

const testSecret = "integration-test-secret-0123456789abcdef"

func mintToken(t *testing.T, guard *auth.Guard, claims auth.Claims) string {
	t.Helper()
	token, err := guard.Sign(claims, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestGuardVerifyRoundTrip(t *testing.T) {
	guard := auth.NewGuard(testSecret)
	brandID := uuid.New()
	subjectID := uuid.New()

	token := mintToken(t, guard, auth.Claims{
		BrandID:   brandID,
		SubjectID: subjectID,
		Scopes:    []string{"content:read", "content:write"},
	})

	claims, err := guard.Verify(token, "content:write")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.BrandID != brandID {
		t.Fatalf("expected brand %s got %s", brandID, claims.BrandID)
	}
	if claims.SubjectID != subjectID {
		t.Fatalf("expected subject %s got %s", subjectID, claims.SubjectID)
	}
}

func TestGuardVerifyMissingToken(t *testing.T) {
	guard := auth.NewGuard(testSecret)

	_, err := guard.Verify("", "")
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected auth.Error got %v", err)
	}
	if authErr.Reason != auth.ReasonMissingToken {
		t.Fatalf("expected %s got %s", auth.ReasonMissingToken, authErr.Reason)
	}
}

func TestGuardVerifyWrongSecret(t *testing.T) {
	guard := auth.NewGuard(testSecret)
	other := auth.NewGuard("another-secret-entirely-0123456789abc")

	token := mintToken(t, other, auth.Claims{BrandID: uuid.New()})

	_, err := guard.Verify(token, "")
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected auth.Error got %v", err)
	}
	if authErr.Reason != auth.ReasonInvalidSignature {
		t.Fatalf("expected %s got %s", auth.ReasonInvalidSignature, authErr.Reason)
	}
}

func TestGuardVerifyMissingTenant(t *testing.T) {
	guard := auth.NewGuard(testSecret)

	token := mintToken(t, guard, auth.Claims{SubjectID: uuid.New()})

	_, err := guard.Verify(token, "")
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected auth.Error got %v", err)
	}
	if authErr.Reason != auth.ReasonMissingTenant {
		t.Fatalf("expected %s got %s", auth.ReasonMissingTenant, authErr.Reason)
	}
}

func TestGuardVerifyInsufficientScope(t *testing.T) {
	guard := auth.NewGuard(testSecret)

	token := mintToken(t, guard, auth.Claims{
		BrandID: uuid.New(),
		Scopes:  []string{"content:read"},
	})

	_, err := guard.Verify(token, "content:write")
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected auth.Error got %v", err)
	}
	if authErr.Reason != auth.ReasonInsufficientScope {
		t.Fatalf("expected %s got %s", auth.ReasonInsufficientScope, authErr.Reason)
	}
}

func TestGuardVerifyIssuerMismatch(t *testing.T) {
	minter := auth.NewGuard(testSecret, auth.WithIssuer("builder"))
	guard := auth.NewGuard(testSecret, auth.WithIssuer("engine"))

	token := mintToken(t, minter, auth.Claims{BrandID: uuid.New()})

	if _, err := guard.Verify(token, ""); err == nil {
		t.Fatal("expected issuer mismatch to fail verification")
	}
}

func TestTokenFromRequestHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/content/page/list", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")

	if got := auth.TokenFromRequest(r); got != "abc.def.ghi" {
		t.Fatalf("expected header token got %q", got)
	}
}

func TestTokenFromRequestQueryFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/content/page/list?token=xyz.123", nil)

	if got := auth.TokenFromRequest(r); got != "xyz.123" {
		t.Fatalf("expected query token got %q", got)
	}
}
