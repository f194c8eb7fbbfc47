// Package service orchestrates spend-authorization decisions: it gathers the
// policy inputs, runs the evaluator, and records the outcome.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/engine"
	"spendgate/internal/authorize/metrics"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/ports"
	"spendgate/internal/authorize/program"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/audit"
	"spendgate/pkg/requestcontext"
)

const fetchTimeout = 2 * time.Second

// Service evaluates spend-authorization requests against per-organization
// policy and program state.
type Service struct {
	rulesets ports.RulesetStore
	programs ports.ProgramRegistry
	auditor  ports.AuditPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures a Service instance.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher sets the audit event publisher.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

// New creates an authorization service.
func New(rulesets ports.RulesetStore, programs ports.ProgramRegistry, opts ...Option) (*Service, error) {
	if rulesets == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ruleset store is required")
	}
	if programs == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "program registry is required")
	}

	s := &Service{
		rulesets: rulesets,
		programs: programs,
		tracer:   otel.Tracer("spendgate/authorize"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// policyInputs are the two independently-stored inputs an evaluation needs.
type policyInputs struct {
	ruleset config.Ruleset
	record  ports.ProgramRecord
}

// Evaluate runs the full decision pipeline for one checkout attempt.
// The returned decision is advisory only; evaluation never mutates state
// beyond the audit trail.
func (s *Service) Evaluate(ctx context.Context, orgID id.OrgID, req models.TransactionRequest) (models.Decision, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "authorize.evaluate",
		trace.WithAttributes(attribute.String("org_id", orgID.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	correlationID := requestcontext.RequestID(ctx)
	if correlationID == "" {
		correlationID = id.NewCorrelationID().String()
	}

	inputs, err := s.gatherInputs(ctx, orgID)
	if err != nil {
		return models.Decision{}, err
	}

	resolution := program.Resolve(inputs.record.Status, inputs.record.Grace, now)
	decision := engine.Evaluate(req, resolution, inputs.ruleset, now, correlationID)

	span.SetAttributes(attribute.String("outcome", string(decision.Outcome)))

	s.metrics.IncrementOutcome(string(decision.Outcome), string(req.Method))
	for _, reason := range decision.Reasons {
		s.metrics.IncrementReason(string(reason.Code))
	}
	s.metrics.ObserveEvaluateLatency(time.Since(start))

	reasonCodes := make([]string, 0, len(decision.Reasons))
	for _, reason := range decision.Reasons {
		reasonCodes = append(reasonCodes, string(reason.Code))
	}

	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		OrgID:            orgID,
		Action:           audit.ActionDecisionMade,
		Outcome:          string(decision.Outcome),
		ReasonCodes:      reasonCodes,
		CorrelationID:    correlationID,
		PolicySnapshotID: decision.Audit.PolicySnapshotID,
		ClientIP:         requestcontext.ClientIP(ctx),
		Device:           requestcontext.DeviceName(ctx),
	},
		"org_id", orgID.String(),
		"outcome", string(decision.Outcome),
		"correlation_id", correlationID,
	)

	return decision, nil
}

// gatherInputs fetches the ruleset and the program record in parallel with
// shared cancellation. A missing ruleset falls back to the defaults; a
// missing program record means the organization never linked corporate pay.
func (s *Service) gatherInputs(ctx context.Context, orgID id.OrgID) (*policyInputs, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	inputs := &policyInputs{}

	g.Go(func() error {
		start := time.Now()
		rs, err := s.rulesets.Get(ctx, orgID)
		s.metrics.ObserveFetchLatency("ruleset", time.Since(start))

		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			inputs.ruleset = config.DefaultRuleset()
			return nil
		}
		if err != nil {
			return err
		}
		inputs.ruleset = rs
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		record, err := s.programs.Get(ctx, orgID)
		s.metrics.ObserveFetchLatency("program", time.Since(start))

		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			inputs.record = ports.ProgramRecord{Status: models.ProgramNotLinked}
			return nil
		}
		if err != nil {
			return err
		}
		inputs.record = record
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "gather policy inputs")
	}
	return inputs, nil
}

// UpdateRuleset installs a new policy snapshot for an organization.
func (s *Service) UpdateRuleset(ctx context.Context, orgID id.OrgID, rs config.Ruleset, actorID string) error {
	ctx, span := s.tracer.Start(ctx, "authorize.update_ruleset",
		trace.WithAttributes(attribute.String("org_id", orgID.String())))
	defer span.End()

	if err := s.rulesets.Put(ctx, orgID, rs); err != nil {
		return err
	}

	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		OrgID:            orgID,
		Action:           audit.ActionRulesetUpdated,
		PolicySnapshotID: rs.SnapshotID,
		ActorID:          actorID,
		Detail:           "snapshot " + rs.SnapshotID,
	},
		"org_id", orgID.String(),
		"snapshot_id", rs.SnapshotID,
		"actor_id", actorID,
	)
	return nil
}

// UpdateProgram installs a new program funding record for an organization.
func (s *Service) UpdateProgram(ctx context.Context, orgID id.OrgID, record ports.ProgramRecord, actorID string) error {
	ctx, span := s.tracer.Start(ctx, "authorize.update_program",
		trace.WithAttributes(attribute.String("org_id", orgID.String())))
	defer span.End()

	if err := s.programs.Put(ctx, orgID, record); err != nil {
		return err
	}

	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		OrgID:   orgID,
		Action:  audit.ActionProgramUpdated,
		ActorID: actorID,
		Detail:  "status " + string(record.Status),
	},
		"org_id", orgID.String(),
		"status", string(record.Status),
		"actor_id", actorID,
	)
	return nil
}
