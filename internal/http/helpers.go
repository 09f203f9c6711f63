package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/layouts"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// mapError translates the error taxonomy into HTTP statuses. Storage errors
// surface a generic body plus a timestamp, never the driver text.
func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		status := http.StatusUnauthorized
		if authErr.Reason == auth.ReasonForbidden || authErr.Reason == auth.ReasonInsufficientScope {
			status = http.StatusForbidden
		}
		return status, errorResponse{
			Error:   authErr.Reason,
			Message: authErr.Detail,
		}
	}

	var contentNotFound *content.NotFoundError
	if errors.As(err, &contentNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: contentNotFound.Error(),
		}
	}

	var layoutNotFound *layouts.NotFoundError
	if errors.As(err, &layoutNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: layoutNotFound.Error(),
		}
	}

	var contentConflict *content.ConflictError
	if errors.As(err, &contentConflict) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: contentConflict.Error(),
		}
	}

	var layoutConflict *layouts.ConflictError
	if errors.As(err, &layoutConflict) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: layoutConflict.Error(),
		}
	}

	var contentStorage *content.StorageError
	if errors.As(err, &contentStorage) {
		return http.StatusInternalServerError, storageErrorResponse()
	}
	var layoutStorage *layouts.StorageError
	if errors.As(err, &layoutStorage) {
		return http.StatusInternalServerError, storageErrorResponse()
	}

	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: fieldErrors.Error(),
		}
	}

	if isValidationSentinel(err) {
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, storageErrorResponse()
}

func storageErrorResponse() errorResponse {
	return errorResponse{
		Error:   "internal_error",
		Message: "the request could not be completed at " + time.Now().UTC().Format(time.RFC3339),
	}
}

func isValidationSentinel(err error) bool {
	for _, sentinel := range []error{
		content.ErrKindRequired,
		content.ErrTitleRequired,
		content.ErrSlugRequired,
		content.ErrSlugInvalid,
		content.ErrIDRequired,
		content.ErrTargetRequired,
		content.ErrBrandRequired,
		content.ErrNotCatalogKind,
		content.ErrDecisionInvalid,
		layouts.ErrBrandRequired,
		layouts.ErrSectionInvalid,
		layouts.ErrPayloadRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
