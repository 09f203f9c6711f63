// Package http exposes the REST surface of the content engine.
//
// Routes mount under /api:
//   - Content: /content/{kind}/save, /content/{kind}/publish,
//     /content/{kind}/submit, /content/{kind}/review,
//     /content/{kind}/list, /content/{kind}/{idOrSlug}
//   - Layouts: /layouts/{section}/save, /layouts/{section}/publish,
//     /layouts/{brand_id}/published (public)
//
// Every route except the published-layout read passes through the token
// guard. Host applications can register the handlers on their own mux.
package http
