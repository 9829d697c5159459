package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

type testClaims struct {
	UserID string
}

func verifier(raw string) (*testClaims, error) {
	if raw != "good" {
		return nil, serrors.Unauthorized("INVALID_TOKEN", "invalid token")
	}
	return &testClaims{UserID: "u1"}, nil
}

func TestBearerAuth(t *testing.T) {
	var seen *testClaims
	var seenRaw string
	h := BearerAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = composables.UseClaims[*testClaims](r.Context())
		seenRaw, _ = composables.UseToken(r.Context())
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_BEARER_TOKEN")
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		if assert.NotNil(t, seen) {
			assert.Equal(t, "u1", seen.UserID)
		}
		assert.Equal(t, "good", seenRaw)
	})
}
