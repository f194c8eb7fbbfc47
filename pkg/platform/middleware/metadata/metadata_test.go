package metadata

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"spendgate/pkg/requestcontext"
	"spendgate/pkg/testutil"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{
			name: "first hop of X-Forwarded-For wins",
			prepare: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2, 10.0.0.3")
			},
			want: "203.0.113.7",
		},
		{
			name: "single X-Forwarded-For entry",
			prepare: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", " 203.0.113.9 ")
			},
			want: "203.0.113.9",
		},
		{
			name: "X-Real-IP when no forwarded header",
			prepare: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "198.51.100.4")
			},
			want: "198.51.100.4",
		},
		{
			name: "remote addr port stripped",
			prepare: func(r *http.Request) {
				r.RemoteAddr = "192.0.2.11:51234"
			},
			want: "192.0.2.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/")
			tt.prepare(req)
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := testutil.NewRequest(t, http.MethodGet, "/")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("User-Agent", "spendctl/1.0")

	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "203.0.113.7", gotIP)
	assert.Equal(t, "spendctl/1.0", gotUA)
}
