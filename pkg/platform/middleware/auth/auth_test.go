package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/middleware/auth"
	"spendgate/pkg/testutil"
)

type stubValidator struct {
	claims *auth.JWTClaims
}

func (v *stubValidator) ValidateToken(token string) (*auth.JWTClaims, error) {
	if token != "good-token" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func okHandler(captured **auth.JWTClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	validator := &stubValidator{claims: &auth.JWTClaims{Subject: "ops@example.com", Role: auth.RoleOperator, JTI: "jti-1"}}

	var captured *auth.JWTClaims
	handler := auth.RequireAuth(validator, nil)(okHandler(&captured))

	testutil.Given(t, "no authorization header", func(t *testing.T) {
		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/ruleset"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.Given(t, "a malformed authorization header", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/ruleset")
		req.Header.Set("Authorization", "Basic abc")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.Given(t, "a rejected token", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/ruleset")
		req.Header.Set("Authorization", "Bearer bad-token")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.Given(t, "a valid bearer token", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/ruleset")
		req.Header.Set("Authorization", "Bearer good-token")
		rr := testutil.DoRequest(handler, req)

		testutil.AssertStatusOK(t, rr)
		if assert.NotNil(t, captured) {
			assert.Equal(t, "ops@example.com", captured.Subject)
			assert.Equal(t, auth.RoleOperator, captured.Role)
		}
	})
}

func TestRequireRole(t *testing.T) {
	var captured *auth.JWTClaims
	handler := auth.RequireRole(auth.RoleOperator, nil)(okHandler(&captured))

	testutil.Given(t, "no claims in context", func(t *testing.T) {
		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/program"))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	testutil.Given(t, "claims with the wrong role", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/program")
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.JWTClaims{Subject: "someone", Role: "viewer"}))
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	testutil.Given(t, "an operator", func(t *testing.T) {
		req := testutil.WithOperator(testutil.NewRequest(t, http.MethodPut, "/admin/orgs/x/program"), "ops@example.com")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "ops@example.com", captured.Subject)
	})
}
