package testutil

import (
	"net/http"
	"time"

	authmw "spendgate/pkg/platform/middleware/auth"
	"spendgate/pkg/requestcontext"
)

// WithOperator adds operator claims to the request context, simulating what
// the auth middleware does after validating a bearer token.
func WithOperator(req *http.Request, subject string) *http.Request {
	claims := &authmw.JWTClaims{
		Subject: subject,
		Role:    authmw.RoleOperator,
		JTI:     "test-jti",
	}
	return req.WithContext(authmw.WithClaims(req.Context(), claims))
}

// WithRequestID adds a request ID to the request context, simulating the
// request-ID middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the evaluation clock on the request context,
// simulating the request-time middleware with a fixed instant.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
