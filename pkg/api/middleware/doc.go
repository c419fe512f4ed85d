// Package middleware provides the HTTP middleware used by the API server.
//
// Every middleware has the shape func(http.Handler) http.Handler and is
// composed with Chain:
//
//	handler := middleware.Chain(mux,
//		middleware.PanicRecovery(logger),
//		middleware.RequestID(),
//		middleware.Logging(logger),
//		middleware.Metrics(registry),
//		middleware.CORS(corsConfig),
//		middleware.BodySizeLimit(maxBytes),
//	)
//
// The first middleware listed is the outermost.
package middleware

import "net/http"

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that mws[0] sees the request first
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
