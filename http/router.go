package http

import (
	"log/slog"
	"net/http"

	"cost-seer/identity"
)

// NewRouter wires the estimate API. POST routes go through the rate limiter;
// every route sees the authenticated user when a valid token is sent.
func NewRouter(
	handler *EstimateHandler,
	limiter *RateLimiter,
	verifier *identity.TokenVerifier,
	logger *slog.Logger,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/languages", handler.Languages)
	mux.Handle("/estimate", limited(handler.Estimate))
	mux.Handle("/projects", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			limited(handler.Projects).ServeHTTP(w, r)
			return
		}
		handler.Projects(w, r)
	}))
	mux.HandleFunc("/projects/{id}", handler.DeleteProject)

	return AuthMiddleware(verifier, logger, mux)
}
