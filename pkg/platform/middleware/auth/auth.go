// Package auth provides JWT bearer-token middleware for operator endpoints.
// Ruleset and program-registry mutations are operator actions; evaluation
// itself is open to any authenticated checkout caller upstream of this service.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	request "spendgate/pkg/platform/middleware/request"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	Subject string
	Role    string
	JTI     string
}

// RoleOperator can mutate rulesets and program records.
const RoleOperator = "operator"

// Context key for storing authenticated caller claims.
type contextKeyClaims struct{}

// ContextKeyClaims is exported for tests that need context.WithValue.
var ContextKeyClaims = contextKeyClaims{}

// GetClaims retrieves the authenticated claims from the context.
func GetClaims(ctx context.Context) *JWTClaims {
	claims, ok := ctx.Value(ContextKeyClaims).(*JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// WithClaims injects claims into a context.
// Useful for handler unit tests that don't run the middleware chain.
func WithClaims(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and stores its claims in the context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "bearer token required")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "token validation failed",
						"request_id", requestID,
						"error", err,
					)
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// RequireRole rejects authenticated callers whose token lacks the given role.
// Must be mounted after RequireAuth.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims := GetClaims(ctx)
			if claims == nil || claims.Role != role {
				if logger != nil {
					logger.WarnContext(ctx, "role check failed",
						"request_id", request.GetRequestID(ctx),
						"required_role", role,
					)
				}
				writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
