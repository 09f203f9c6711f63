package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/layouts"
	"github.com/google/uuid"
)

type layoutDraftPayload struct {
	BrandID string         `json:"brand_id"`
	Draft   map[string]any `json:"draft"`
}

type layoutPublishPayload struct {
	BrandID      string         `json:"brand_id"`
	RenderedHTML string         `json:"rendered_html,omitempty"`
	RenderedMenu map[string]any `json:"rendered_menu,omitempty"`
}

type layoutWriteResponse struct {
	Success bool   `json:"success"`
	BrandID string `json:"brand_id"`
	Section string `json:"section"`
	Version int64  `json:"version"`
	Status  string `json:"status"`
}

func (api *API) registerLayoutRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "layouts")
	mux.HandleFunc("POST "+root+"/{section}/save", api.handleLayoutSaveDraft)
	mux.HandleFunc("POST "+root+"/{section}/publish", api.handleLayoutPublish)
	mux.HandleFunc("GET "+root+"/{brandID}/published", api.handleLayoutPublished)
	mux.HandleFunc("GET "+root+"/{brandID}", api.handleLayoutGet)
}

func (api *API) handleLayoutSaveDraft(w http.ResponseWriter, r *http.Request) {
	actor, err := api.authorize(r, auth.ScopeWrite)
	if err != nil {
		api.fail(w, err)
		return
	}

	section, ok := layouts.ParseSection(r.PathValue("section"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "section must be header, footer or menu"})
		return
	}

	var payload layoutDraftPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	brandID, err := parseBrandID(payload.BrandID, actor)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	result, err := api.layouts.SaveDraft(r.Context(), layouts.SaveDraftRequest{
		Actor:   actor,
		BrandID: brandID,
		Section: section,
		Draft:   payload.Draft,
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLayoutResponse(result))
}

func (api *API) handleLayoutPublish(w http.ResponseWriter, r *http.Request) {
	actor, err := api.authorize(r, auth.ScopeWrite)
	if err != nil {
		api.fail(w, err)
		return
	}

	section, ok := layouts.ParseSection(r.PathValue("section"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "section must be header, footer or menu"})
		return
	}

	var payload layoutPublishPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	brandID, err := parseBrandID(payload.BrandID, actor)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	result, err := api.layouts.Publish(r.Context(), layouts.PublishRequest{
		Actor:        actor,
		BrandID:      brandID,
		Section:      section,
		RenderedHTML: payload.RenderedHTML,
		RenderedMenu: payload.RenderedMenu,
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLayoutResponse(result))
}

// handleLayoutPublished is the one public route: storefronts fetch the live
// layout without a token.
func (api *API) handleLayoutPublished(w http.ResponseWriter, r *http.Request) {
	brandID, err := uuid.Parse(strings.TrimSpace(r.PathValue("brandID")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "brand id must be a uuid"})
		return
	}

	published, err := api.layouts.Published(r.Context(), brandID)
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, published)
}

func (api *API) handleLayoutGet(w http.ResponseWriter, r *http.Request) {
	actor, err := api.authorize(r, auth.ScopeRead)
	if err != nil {
		api.fail(w, err)
		return
	}

	brandID, err := uuid.Parse(strings.TrimSpace(r.PathValue("brandID")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "brand id must be a uuid"})
		return
	}

	record, err := api.layouts.Get(r.Context(), actor, brandID)
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"layout": record})
}

// parseBrandID resolves the target brand: the payload value when supplied,
// the actor's own brand otherwise.
func parseBrandID(raw string, actor auth.Actor) (uuid.UUID, error) {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return uuid.Parse(trimmed)
	}
	if brandID, ok := actor.Scope.BrandID(); ok {
		return brandID, nil
	}
	return uuid.Nil, layouts.ErrBrandRequired
}

func toLayoutResponse(result *layouts.WriteResult) layoutWriteResponse {
	return layoutWriteResponse{
		Success: true,
		BrandID: result.BrandID.String(),
		Section: string(result.Section),
		Version: result.Version,
		Status:  string(result.Status),
	}
}
