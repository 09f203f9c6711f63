package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/layouts"
	"github.com/goliatone/go-brand-cms/internal/logging"
	"github.com/goliatone/go-brand-cms/pkg/interfaces"
)

// API registers the brand-facing content and layout endpoints.
type API struct {
	basePath string
	guard    *auth.Guard
	content  content.Service
	layouts  layouts.Service
	logger   interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: "/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithGuard wires the token guard. Without a guard every protected route
// fails closed.
func WithGuard(guard *auth.Guard) Option {
	return func(api *API) {
		if api != nil {
			api.guard = guard
		}
	}
}

// WithContentService wires the write coordinator.
func WithContentService(service content.Service) Option {
	return func(api *API) {
		if api != nil {
			api.content = service
		}
	}
}

// WithLayoutService wires the layout writer.
func WithLayoutService(service layouts.Service) Option {
	return func(api *API) {
		if api != nil {
			api.layouts = service
		}
	}
}

// WithLogger wires the transport logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// Register mounts every route on the supplied mux.
func (api *API) Register(mux *http.ServeMux) {
	if api == nil || mux == nil {
		return
	}
	api.registerContentRoutes(mux, api.basePath)
	api.registerLayoutRoutes(mux, api.basePath)
}

// Handler returns a ready-to-serve handler with CORS applied.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux)
	return withCORS(api.withRequestLog(mux))
}

// withRequestLog annotates the request context with transport fields and
// traces every call at debug level.
func (api *API) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.ContextWithFields(r.Context(), map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		api.logger.WithContext(ctx).Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize runs the token guard against the request and returns the acting
// identity.
func (api *API) authorize(r *http.Request, requiredScope string) (auth.Actor, error) {
	if api.guard == nil {
		return auth.Actor{}, &auth.Error{Reason: auth.ReasonMissingToken, Detail: "no token guard configured"}
	}
	claims, err := api.guard.Verify(auth.TokenFromRequest(r), requiredScope)
	if err != nil {
		return auth.Actor{}, err
	}
	return auth.ActorFromClaims(claims), nil
}

// fail writes the mapped error response, logging server-side failures with
// their full detail before the generic body goes out.
func (api *API) fail(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.WithFields(api.logger, map[string]any{"status": status}).Error("request failed", "error", err)
	}
	writeJSON(w, status, payload)
}

// withCORS applies the permissive cross-origin policy the builder UI relies
// on. Preflight requests short-circuit.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
