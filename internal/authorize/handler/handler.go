package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/ports"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/httputil"
	authmw "spendgate/pkg/platform/middleware/auth"
	"spendgate/pkg/requestcontext"
)

// Service defines the interface for authorization operations.
type Service interface {
	Evaluate(ctx context.Context, orgID id.OrgID, req models.TransactionRequest) (models.Decision, error)
	UpdateRuleset(ctx context.Context, orgID id.OrgID, rs config.Ruleset, actorID string) error
	UpdateProgram(ctx context.Context, orgID id.OrgID, record ports.ProgramRecord, actorID string) error
}

// Handler wires authorization endpoints to the authorization service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an authorization handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the public evaluation endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/authorize/evaluate", h.HandleEvaluate)
}

// RegisterAdmin mounts operator-only mutation endpoints. The router is
// expected to gate this group with RequireAuth and RequireRole.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/admin/orgs/{orgID}/ruleset", h.HandleUpdateRuleset)
	r.Put("/admin/orgs/{orgID}/program", h.HandleUpdateProgram)
}

// HandleEvaluate handles POST /authorize/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.service.Evaluate(ctx, req.Org(), req.Transaction())
	if err != nil {
		h.logger.ErrorContext(ctx, "authorization evaluation failed",
			"request_id", requestID,
			"org_id", req.Org(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authorization evaluated",
		"request_id", requestID,
		"org_id", req.Org(),
		"outcome", decision.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}

// HandleUpdateRuleset handles PUT /admin/orgs/{orgID}/ruleset requests.
func (h *Handler) HandleUpdateRuleset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateRulesetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateRuleset(ctx, orgID, req.Ruleset(), h.actorID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "ruleset update failed",
			"request_id", requestID,
			"org_id", orgID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"org_id":      orgID.String(),
		"snapshot_id": req.Ruleset().SnapshotID,
	})
}

// HandleUpdateProgram handles PUT /admin/orgs/{orgID}/program requests.
func (h *Handler) HandleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orgID, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateProgram(ctx, orgID, req.Record(), h.actorID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "program update failed",
			"request_id", requestID,
			"org_id", orgID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"org_id": orgID.String(),
		"status": string(req.Record().Status),
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

func (h *Handler) actorID(ctx context.Context) string {
	if claims := authmw.GetClaims(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}
