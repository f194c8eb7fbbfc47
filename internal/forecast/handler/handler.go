package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spendgate/internal/forecast/service"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/httputil"
	"spendgate/pkg/requestcontext"
)

// Service defines the interface for forecast operations.
type Service interface {
	Forecast(ctx context.Context, orgID id.OrgID) (service.Forecast, error)
	RecordSpend(ctx context.Context, orgID id.OrgID, amount int64) (int64, error)
}

// Handler wires forecast endpoints to the forecast service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a forecast handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts forecast endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/orgs/{orgID}/forecast", h.HandleForecast)
	r.Post("/orgs/{orgID}/spend", h.HandleRecordSpend)
}

// HandleForecast handles GET /orgs/{orgID}/forecast requests.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}

	f, err := h.service.Forecast(ctx, orgID)
	if err != nil {
		h.logger.ErrorContext(ctx, "forecast failed",
			"request_id", requestID,
			"org_id", orgID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromForecast(f))
}

// HandleRecordSpend handles POST /orgs/{orgID}/spend requests.
func (h *Handler) HandleRecordSpend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[RecordSpendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	total, err := h.service.RecordSpend(ctx, orgID, req.Amount)
	if err != nil {
		h.logger.ErrorContext(ctx, "spend recording failed",
			"request_id", requestID,
			"org_id", orgID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RecordSpendResponse{
		OrgID:       orgID.String(),
		PeriodTotal: total,
	})
}

func (h *Handler) orgFromPath(w http.ResponseWriter, r *http.Request) (id.OrgID, bool) {
	orgID, err := id.ParseOrgID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid org id"))
		return id.OrgID{}, false
	}
	return orgID, true
}
