package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/google/uuid"
)

type contentWritePayload struct {
	ID       string         `json:"id,omitempty"`
	BrandID  string         `json:"brand_id,omitempty"`
	Global   bool           `json:"global,omitempty"`
	Title    string         `json:"title,omitempty"`
	Slug     string         `json:"slug,omitempty"`
	Content  map[string]any `json:"content,omitempty"`
	Status   string         `json:"status,omitempty"`
	AuthorID string         `json:"author_id,omitempty"`
}

type contentReviewPayload struct {
	ID       string `json:"id,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Decision string `json:"decision"`
}

type writeResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Version int64  `json:"version"`
	Status  string `json:"status"`
}

func (api *API) registerContentRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "content")
	mux.HandleFunc("POST "+root+"/{kind}/save", api.handleContentSave)
	mux.HandleFunc("POST "+root+"/{kind}/publish", api.handleContentPublish)
	mux.HandleFunc("POST "+root+"/{kind}/submit", api.handleContentSubmit)
	mux.HandleFunc("POST "+root+"/{kind}/review", api.handleContentReview)
	mux.HandleFunc("GET "+root+"/{kind}/list", api.handleContentList)
	mux.HandleFunc("GET "+root+"/{kind}/{idOrSlug}", api.handleContentGet)
	mux.HandleFunc("PUT "+root+"/{kind}/{idOrSlug}", api.handleContentUpdate)
	mux.HandleFunc("DELETE "+root+"/{kind}/{id}", api.handleContentDelete)
}

func (api *API) handleContentSave(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var payload contentWritePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	req, err := payload.toSaveRequest(actor, kind)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	result, err := api.content.Save(r.Context(), req)
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWriteResponse(result))
}

func (api *API) handleContentUpdate(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var payload contentWritePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	target, err := payload.targetRef()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}
	// The payload slug is the value to write; the path segment and the
	// explicit ?slug= hint address the record being renamed.
	target.Slug = strings.TrimSpace(r.URL.Query().Get("slug"))
	target.PathSegment = r.PathValue("idOrSlug")

	var status *domain.Status
	if payload.Status != "" {
		normalized := domain.NormalizeStatus(payload.Status)
		status = &normalized
	}

	result, err := api.content.Update(r.Context(), content.UpdateRequest{
		Actor:   actor,
		Kind:    kind,
		Target:  target,
		Title:   payload.Title,
		Slug:    payload.Slug,
		Content: payload.Content,
		Status:  status,
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWriteResponse(result))
}

func (api *API) handleContentPublish(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var payload contentWritePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	target, err := payload.targetRef()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	result, err := api.content.Publish(r.Context(), content.PublishRequest{
		Actor:   actor,
		Kind:    kind,
		Target:  target,
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWriteResponse(result))
}

func (api *API) handleContentSubmit(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var payload contentWritePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	target, err := payload.targetRef()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	result, err := api.content.SubmitToCatalog(r.Context(), content.SubmitRequest{
		Actor:  actor,
		Kind:   kind,
		Target: target,
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWriteResponse(result))
}

func (api *API) handleContentReview(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var payload contentReviewPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	target := content.TargetRef{Slug: strings.TrimSpace(payload.Slug)}
	if raw := strings.TrimSpace(payload.ID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "id must be a uuid"})
			return
		}
		target.ID = id
	}

	result, err := api.content.ReviewCatalog(r.Context(), content.ReviewRequest{
		Actor:    actor,
		Kind:     kind,
		Target:   target,
		Decision: domain.CatalogStatus(strings.ToLower(strings.TrimSpace(payload.Decision))),
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWriteResponse(result))
}

func (api *API) handleContentDelete(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "id must be a uuid"})
		return
	}

	if err := api.content.Delete(r.Context(), content.DeleteRequest{
		Actor: actor,
		Kind:  kind,
		ID:    id,
	}); err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (api *API) handleContentList(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	query := r.URL.Query()
	var status *domain.Status
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		if !domain.IsValidStatus(raw) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "status must be draft or published"})
			return
		}
		normalized := domain.NormalizeStatus(raw)
		status = &normalized
	}

	items, err := api.content.List(r.Context(), content.ListRequest{
		Actor:           actor,
		Kind:            kind,
		Status:          status,
		IncludeAssigned: query.Get("include_assigned") == "true",
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (api *API) handleContentGet(w http.ResponseWriter, r *http.Request) {
	actor, kind, ok := api.contentRequest(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	target := content.TargetRef{
		Slug:        strings.TrimSpace(r.URL.Query().Get("slug")),
		PathSegment: r.PathValue("idOrSlug"),
	}

	item, err := api.content.Get(r.Context(), content.GetRequest{
		Actor:  actor,
		Kind:   kind,
		Target: target,
	})
	if err != nil {
		api.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// contentRequest performs the guard check and kind resolution shared by every
// content handler.
func (api *API) contentRequest(w http.ResponseWriter, r *http.Request, requiredScope string) (auth.Actor, domain.Kind, bool) {
	actor, err := api.authorize(r, requiredScope)
	if err != nil {
		api.fail(w, err)
		return auth.Actor{}, "", false
	}

	kind, ok := domain.ParseKind(r.PathValue("kind"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_body", Message: "unknown content kind"})
		return auth.Actor{}, "", false
	}
	return actor, kind, true
}

func (p contentWritePayload) targetRef() (content.TargetRef, error) {
	ref := content.TargetRef{Slug: strings.TrimSpace(p.Slug)}
	if raw := strings.TrimSpace(p.ID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return content.TargetRef{}, err
		}
		ref.ID = id
	}
	return ref, nil
}

func (p contentWritePayload) toSaveRequest(actor auth.Actor, kind domain.Kind) (content.SaveRequest, error) {
	req := content.SaveRequest{
		Actor:   actor,
		Kind:    kind,
		Global:  p.Global,
		Title:   p.Title,
		Slug:    p.Slug,
		Content: p.Content,
	}

	target, err := p.targetRef()
	if err != nil {
		return content.SaveRequest{}, err
	}
	// The payload slug is a field to write, not an address; only an explicit
	// id targets an existing record from the save body.
	target.Slug = ""
	req.Target = target

	if raw := strings.TrimSpace(p.BrandID); raw != "" {
		brandID, err := uuid.Parse(raw)
		if err != nil {
			return content.SaveRequest{}, err
		}
		req.BrandID = brandID
	}
	if raw := strings.TrimSpace(p.AuthorID); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			return content.SaveRequest{}, err
		}
		req.AuthorID = &authorID
	}
	if p.Status != "" {
		status := domain.NormalizeStatus(p.Status)
		req.Status = &status
	}
	return req, nil
}

func toWriteResponse(result *content.WriteResult) writeResponse {
	return writeResponse{
		Success: true,
		ID:      result.ID.String(),
		Slug:    result.Slug,
		Version: result.Version,
		Status:  string(result.Status),
	}
}
