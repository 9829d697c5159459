package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var ErrMissingBearer = serrors.Unauthorized("MISSING_BEARER_TOKEN", "missing bearer token")

// BearerAuth verifies the Authorization header with verify and stores the
// resulting claims via composables.WithClaims. Requests without a valid
// token are rejected with 401.
func BearerAuth[C any](verify func(raw string) (C, error)) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				_ = httpapi.WriteServiceError(w, ErrMissingBearer)
				return
			}
			raw = strings.TrimSpace(raw)
			claims, err := verify(raw)
			if err != nil {
				composables.UseLogger(r.Context()).WithError(err).Info("bearer token rejected")
				_ = httpapi.WriteServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithClaims(r.Context(), raw, claims)))
		})
	}
}
