package handler

import (
	"context"
	"net/http"
	"sn-inventory-api/common"
	"sn-inventory-api/logger"
	"sn-inventory-api/model"
	"sn-inventory-api/token"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "requestID"
)

// IdentityFromContext returns the identity attached by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

// AuthMiddleware is the request gate for protected routes. It verifies the
// bearer token and attaches the decoded identity to the request context. It
// is a pure gate: it never touches the refresh store and never refreshes
// tokens itself.
//
// The three failure kinds are externally distinguishable (missing header,
// bad format, invalid token), but every signer failure collapses into
// AUTH_TOKEN_INVALID so the response does not leak whether a token was
// expired, corrupted or forged.
func AuthMiddleware(signer *token.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, common.CodeHeaderMissing, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, common.CodeTokenFormatError, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := signer.VerifyAccess(headerParts[1])
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, common.CodeTokenInvalid, "Invalid or expired token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware allows the call through only for admin identities. It must
// run downstream of AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || identity.Role != string(model.RoleAdmin) {
			common.NewAppError(http.StatusForbidden, common.CodeForbidden, "Access denied. Admin privileges required.", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware tags every request with an ID for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger.Log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Info("Request received")

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
