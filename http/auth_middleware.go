package http

import (
	"log/slog"
	"net/http"
	"strings"

	"cost-seer/identity"
)

// AuthMiddleware attaches the bearer token's user to the request context.
// Requests without a token pass through anonymously; a token that fails
// verification is rejected.
func AuthMiddleware(
	verifier *identity.TokenVerifier,
	logger *slog.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		raw, ok := bearerToken(r)
		if !ok || verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := verifier.Verify(raw)
		if err != nil {
			logger.Debug("rejected bearer token", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
