package handler

import (
	"strings"
	"time"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/ports"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /authorize/evaluate.
type EvaluateRequest struct {
	OrgID        string `json:"org_id"`
	Method       string `json:"method"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Region       string `json:"region"`
	TimeOfDay    string `json:"time_of_day"`
	Category     string `json:"category"`
	ScheduleMode string `json:"schedule_mode"`
	Purpose      string `json:"purpose"`
	CostCenter   string `json:"cost_center"`

	// Parsed values (populated by Validate)
	parsedOrg id.OrgID
	parsed    models.TransactionRequest
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	orgID, err := id.ParseOrgID(strings.TrimSpace(r.OrgID))
	if err != nil {
		return err
	}
	r.parsedOrg = orgID

	method, err := models.ParsePaymentMethod(strings.TrimSpace(r.Method))
	if err != nil {
		return err
	}

	category := models.CategoryStandard
	if strings.TrimSpace(r.Category) != "" {
		category, err = models.ParseCategory(strings.TrimSpace(r.Category))
		if err != nil {
			return err
		}
	}

	mode := models.ScheduleImmediate
	if strings.TrimSpace(r.ScheduleMode) != "" {
		mode, err = models.ParseScheduleMode(strings.TrimSpace(r.ScheduleMode))
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(r.TimeOfDay) == "" {
		return dErrors.New(dErrors.CodeValidation, "time_of_day is required")
	}
	tod, err := models.ParseTimeOfDay(strings.TrimSpace(r.TimeOfDay))
	if err != nil {
		return err
	}

	parsed, err := models.NewTransactionRequest(
		method, r.Amount, strings.TrimSpace(r.Currency), strings.TrimSpace(r.Region),
		tod, category, mode, r.Purpose, r.CostCenter,
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid transaction")
	}
	r.parsed = parsed
	return nil
}

// Org returns the parsed organization ID. Only valid after Validate.
func (r *EvaluateRequest) Org() id.OrgID {
	return r.parsedOrg
}

// Transaction returns the parsed domain request. Only valid after Validate.
func (r *EvaluateRequest) Transaction() models.TransactionRequest {
	return r.parsed
}

// UpdateRulesetRequest is the HTTP request body for PUT /admin/orgs/{orgID}/ruleset.
type UpdateRulesetRequest struct {
	SnapshotID          string            `json:"snapshot_id"`
	ApprovedRegions     []string          `json:"approved_regions"`
	HoursStart          string            `json:"hours_start"`
	HoursEnd            string            `json:"hours_end"`
	ApprovalThreshold   int64             `json:"approval_threshold"`
	PerTransactionLimit int64             `json:"per_transaction_limit"`
	RequirePurpose      bool              `json:"require_purpose"`
	RequireCostCenter   bool              `json:"require_cost_center"`
	MonthlyCap          int64             `json:"monthly_cap"`
	CoachTips           []models.CoachTip `json:"coach_tips"`

	parsed config.Ruleset
}

// Validate validates and parses the ruleset body.
func (r *UpdateRulesetRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	start, err := models.ParseTimeOfDay(strings.TrimSpace(r.HoursStart))
	if err != nil {
		return err
	}
	end, err := models.ParseTimeOfDay(strings.TrimSpace(r.HoursEnd))
	if err != nil {
		return err
	}

	rs := config.Ruleset{
		SnapshotID:          strings.TrimSpace(r.SnapshotID),
		ApprovedRegions:     r.ApprovedRegions,
		HoursStart:          start,
		HoursEnd:            end,
		ApprovalThreshold:   r.ApprovalThreshold,
		PerTransactionLimit: r.PerTransactionLimit,
		RequirePurpose:      r.RequirePurpose,
		RequireCostCenter:   r.RequireCostCenter,
		MonthlyCap:          r.MonthlyCap,
		CoachTips:           r.CoachTips,
	}
	if err := rs.Validate(); err != nil {
		return err
	}
	r.parsed = rs
	return nil
}

// Ruleset returns the parsed ruleset. Only valid after Validate.
func (r *UpdateRulesetRequest) Ruleset() config.Ruleset {
	return r.parsed
}

// UpdateProgramRequest is the HTTP request body for PUT /admin/orgs/{orgID}/program.
type UpdateProgramRequest struct {
	Status      string `json:"status"`
	GraceActive bool   `json:"grace_active"`
	GraceExpiry string `json:"grace_expiry"`

	parsed ports.ProgramRecord
}

// Validate validates and parses the program body.
func (r *UpdateProgramRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	status, err := models.ParseProgramStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}

	record := ports.ProgramRecord{Status: status}
	if r.GraceActive {
		if strings.TrimSpace(r.GraceExpiry) == "" {
			return dErrors.New(dErrors.CodeValidation, "grace_expiry is required when grace_active is set")
		}
		expiry, err := time.Parse(time.RFC3339, strings.TrimSpace(r.GraceExpiry))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "grace_expiry must be RFC 3339")
		}
		record.Grace = models.GraceWindow{Enabled: true, Expiry: expiry}
	}
	r.parsed = record
	return nil
}

// Record returns the parsed program record. Only valid after Validate.
func (r *UpdateProgramRequest) Record() ports.ProgramRecord {
	return r.parsed
}
