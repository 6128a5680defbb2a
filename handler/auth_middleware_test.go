// file: handler/auth_middleware_test.go

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sn-inventory-api/model"
	"sn-inventory-api/token"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signerForMiddlewareTest(t *testing.T) *token.Signer {
	signer, err := token.NewSigner("mw-access-secret", "mw-refresh-secret", 15*time.Minute, time.Hour)
	assert.NoError(t, err)
	return signer
}

// identityEcho responds with the identity the middleware attached.
func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		assert.True(t, ok, "identity should be attached to the context")
		json.NewEncoder(w).Encode(identity)
	})
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	signer := signerForMiddlewareTest(t)
	protected := AuthMiddleware(signer)(identityEcho(t))

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "AUTH_HEADER_MISSING", decodeErrorCode(t, rr))
	})

	t.Run("bad format", func(t *testing.T) {
		for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", header)
			rr := httptest.NewRecorder()
			protected.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
			assert.Equal(t, "AUTH_TOKEN_FORMAT_ERROR", decodeErrorCode(t, rr), "header %q", header)
		}
	})

	t.Run("invalid token collapses every signer failure", func(t *testing.T) {
		// Expired token.
		shortSigner, err := token.NewSigner("mw-access-secret", "mw-refresh-secret", time.Nanosecond, time.Hour)
		assert.NoError(t, err)
		expired, err := shortSigner.IssueAccess(model.Identity{ID: 1, Username: "admin", Role: "admin"})
		assert.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		// Foreign signature.
		otherSigner, err := token.NewSigner("other-access", "other-refresh", time.Minute, time.Hour)
		assert.NoError(t, err)
		forged, err := otherSigner.IssueAccess(model.Identity{ID: 1, Username: "admin", Role: "admin"})
		assert.NoError(t, err)

		for _, tokenString := range []string{expired, forged, "not-a-jwt"} {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			rr := httptest.NewRecorder()
			protected.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "AUTH_TOKEN_INVALID", decodeErrorCode(t, rr))
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		accessToken, err := signer.IssueAccess(model.Identity{ID: 7, Username: "viewer", Role: "user"})
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var identity model.Identity
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &identity))
		assert.Equal(t, model.Identity{ID: 7, Username: "viewer", Role: "user"}, identity)
	})
}

func TestAdminMiddleware(t *testing.T) {
	signer := signerForMiddlewareTest(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	protected := AuthMiddleware(signer)(AdminMiddleware(ok))

	t.Run("non-admin is rejected", func(t *testing.T) {
		accessToken, err := signer.IssueAccess(model.Identity{ID: 7, Username: "viewer", Role: "user"})
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		accessToken, err := signer.IssueAccess(model.Identity{ID: 1, Username: "admin", Role: "admin"})
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
