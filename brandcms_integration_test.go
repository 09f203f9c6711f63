package brandcms_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	brandcms "github.com/goliatone/go-brand-cms"
	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/di"
	"github.com/goliatone/go-brand-cms/pkg/testsupport"
	"github.com/google/uuid"
)

func newTestModule(t *testing.T) *brandcms.Module {
	t.Helper()

	cfg := brandcms.DefaultConfig()
	cfg.Auth.Secret = "integration-secret"
	cfg.Logging.Format = "json"

	db := testsupport.NewBunDB(t)
	module, err := brandcms.New(cfg, di.WithBunDB(db))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if err := module.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return module
}

func signToken(t *testing.T, module *brandcms.Module, brandID uuid.UUID, scopes ...string) string {
	t.Helper()
	token, err := module.Guard().Sign(auth.Claims{
		BrandID:   brandID,
		SubjectID: uuid.New(),
		Scopes:    scopes,
	}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestModuleContentLifecycleOverSQLite(t *testing.T) {
	module := newTestModule(t)
	handler := module.Handler()

	brandID := uuid.New()
	token := signToken(t, module, brandID, auth.ScopeRead, auth.ScopeWrite)

	rec := doRequest(t, handler, http.MethodPost, "/api/content/page/save", token, map[string]any{
		"title":   "About Us",
		"slug":    "about-us",
		"content": map[string]any{"body": "hello"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		ID      string `json:"id"`
		Slug    string `json:"slug"`
		Version int64  `json:"version"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save: %v", err)
	}
	if saved.Version != 1 || saved.Status != "draft" {
		t.Fatalf("expected draft v1, got %+v", saved)
	}

	// Saving the same slug again updates in place.
	rec = doRequest(t, handler, http.MethodPost, "/api/content/page/save", token, map[string]any{
		"title": "About Us, Updated",
		"slug":  "about-us",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second save status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode second save: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/content/page/publish", token, map[string]any{
		"id": saved.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode publish: %v", err)
	}
	if saved.Status != "published" || saved.Version != 3 {
		t.Fatalf("expected published v3, got %+v", saved)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/content/page/list?status=published", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var listing struct {
		Items []struct {
			Slug   string `json:"slug"`
			Source string `json:"source"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0].Slug != "about-us" {
		t.Fatalf("unexpected listing %+v", listing.Items)
	}
}

func TestModuleRejectsForeignBrandWrites(t *testing.T) {
	module := newTestModule(t)
	handler := module.Handler()

	owner := uuid.New()
	intruder := uuid.New()

	ownerToken := signToken(t, module, owner, auth.ScopeRead, auth.ScopeWrite)
	rec := doRequest(t, handler, http.MethodPost, "/api/content/page/save", ownerToken, map[string]any{
		"title": "Home",
		"slug":  "home",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save: %v", err)
	}

	intruderToken := signToken(t, module, intruder, auth.ScopeRead, auth.ScopeWrite)
	rec = doRequest(t, handler, http.MethodPut, "/api/content/page/"+saved.ID, intruderToken, map[string]any{
		"id":    saved.ID,
		"title": "Hijacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign brand write, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestModuleLayoutPublishFlowOverSQLite(t *testing.T) {
	module := newTestModule(t)
	handler := module.Handler()

	brandID := uuid.New()
	token := signToken(t, module, brandID, auth.ScopeRead, auth.ScopeWrite)

	rec := doRequest(t, handler, http.MethodPost, "/api/layouts/header/save", token, map[string]any{
		"draft": map[string]any{"logo": "acme.png"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("draft status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/layouts/header/publish", token, map[string]any{
		"rendered_html": "<header>Acme</header>",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/layouts/%s/published", brandID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("published status = %d, body %s", rec.Code, rec.Body.String())
	}
	var published struct {
		HeaderHTML string `json:"header_html"`
		Version    int64  `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &published); err != nil {
		t.Fatalf("decode published: %v", err)
	}
	if published.HeaderHTML != "<header>Acme</header>" {
		t.Fatalf("unexpected published header %q", published.HeaderHTML)
	}
	if published.Version != 2 {
		t.Fatalf("expected shared version 2, got %d", published.Version)
	}
}
