package httptransport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	authorizeHandler "spendgate/internal/authorize/handler"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/ports"
	authorizeService "spendgate/internal/authorize/service"
	programStore "spendgate/internal/authorize/store/program"
	rulesetStore "spendgate/internal/authorize/store/ruleset"
	forecastHandler "spendgate/internal/forecast/handler"
	forecastService "spendgate/internal/forecast/service"
	usageStore "spendgate/internal/forecast/store/usage"
	jwttoken "spendgate/internal/jwt_token"
	id "spendgate/pkg/domain"
	request "spendgate/pkg/platform/middleware/request"
)

// =============================================================================
// Router Integration Tests
// =============================================================================
// End-to-end through the real middleware chain with in-memory stores.

type RouterSuite struct {
	suite.Suite
	router   http.Handler
	jwt      *jwttoken.JWTService
	programs *programStore.InMemoryRegistry
	orgID    id.OrgID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.Default()

	rulesets := rulesetStore.NewInMemory()
	s.programs = programStore.NewInMemory()

	authSvc, err := authorizeService.New(rulesets, s.programs)
	s.Require().NoError(err)

	forecastSvc, err := forecastService.New(usageStore.NewInMemory(), rulesets)
	s.Require().NoError(err)

	s.jwt = jwttoken.NewJWTService("test-signing-key", "spendgate", "spendgate")

	s.router = NewRouter(Deps{
		Authorize: authorizeHandler.New(authSvc, logger),
		Forecast:  forecastHandler.New(forecastSvc, logger),
		Validator: s.jwt,
		Logger:    logger,
	})

	s.orgID, err = id.ParseOrgID("4d1f2a6b-8c3e-47d9-b721-55f0a9e6c402")
	s.Require().NoError(err)
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestRequestIDPropagation() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(request.HeaderRequestID, "trace-me")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal("trace-me", rec.Header().Get(request.HeaderRequestID))
}

func (s *RouterSuite) TestEvaluateThroughMiddleware() {
	s.Require().NoError(s.programs.Put(s.T().Context(), s.orgID,
		ports.ProgramRecord{Status: models.ProgramEligible}))

	rec := s.do(http.MethodPost, "/authorize/evaluate", "", map[string]any{
		"org_id":      s.orgID.String(),
		"method":      "corporate_pay",
		"amount":      170000,
		"currency":    "UGX",
		"region":      "Kampala",
		"time_of_day": "09:30",
		"purpose":     "Airport",
		"cost_center": "OPS-01",
	})
	s.Equal(http.StatusOK, rec.Code)

	var resp authorizeHandler.EvaluateResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("allowed", resp.Outcome)
	s.NotEmpty(resp.Audit.CorrelationID)
}

func (s *RouterSuite) TestAdminAuthGate() {
	body := map[string]any{"status": "eligible"}
	path := "/admin/orgs/" + s.orgID.String() + "/program"

	s.Run("missing token rejected", func() {
		rec := s.do(http.MethodPut, path, "", body)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("operator token accepted", func() {
		token, err := s.jwt.GenerateOperatorToken("ops@corp", time.Hour)
		s.Require().NoError(err)

		rec := s.do(http.MethodPut, path, token, body)
		s.Equal(http.StatusOK, rec.Code)
	})
}
