// Package httptransport assembles the HTTP surface: middleware chain, public
// and operator route groups, health and metrics endpoints. It holds no
// business logic.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authorizeHandler "spendgate/internal/authorize/handler"
	forecastHandler "spendgate/internal/forecast/handler"
	platformmetrics "spendgate/internal/platform/metrics"
	"spendgate/pkg/platform/httputil"
	authmw "spendgate/pkg/platform/middleware/auth"
	"spendgate/pkg/platform/middleware/device"
	"spendgate/pkg/platform/middleware/metadata"
	request "spendgate/pkg/platform/middleware/request"
	"spendgate/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Authorize *authorizeHandler.Handler
	Forecast  *forecastHandler.Handler
	Validator authmw.JWTValidator
	Metrics   *platformmetrics.Metrics
	Logger    *slog.Logger
}

// NewRouter wires the full middleware chain and all endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Detect)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", request.HeaderRequestID},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public surface: evaluation and forecasting.
	r.Group(func(r chi.Router) {
		deps.Authorize.Register(r)
		deps.Forecast.Register(r)
	})

	// Operator surface: policy and program mutations.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(deps.Validator, deps.Logger))
		r.Use(authmw.RequireRole(authmw.RoleOperator, deps.Logger))
		deps.Authorize.RegisterAdmin(r)
	})

	return r
}
