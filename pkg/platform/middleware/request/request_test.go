package request_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendgate/pkg/platform/middleware/request"
	"spendgate/pkg/testutil"
)

func TestMiddleware(t *testing.T) {
	var captured string
	handler := request.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = request.GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	testutil.Given(t, "a caller-supplied X-Request-ID", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/healthz")
		req.Header.Set(request.HeaderRequestID, "gateway-abc-123")

		rr := testutil.DoRequest(handler, req)

		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "gateway-abc-123", captured)
		assert.Equal(t, "gateway-abc-123", rr.Header().Get(request.HeaderRequestID))
	})

	testutil.Given(t, "no inbound request ID", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/healthz")

		rr := testutil.DoRequest(handler, req)

		testutil.AssertStatusOK(t, rr)
		require.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err, "generated request ID should be a UUID")
		assert.Equal(t, captured, rr.Header().Get(request.HeaderRequestID))
	})
}

func TestGetRequestID(t *testing.T) {
	req := testutil.NewRequest(t, http.MethodGet, "/")
	assert.Empty(t, request.GetRequestID(req.Context()))

	req = testutil.WithRequestID(req, "req-42")
	assert.Equal(t, "req-42", request.GetRequestID(req.Context()))
}
