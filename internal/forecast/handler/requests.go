package handler

import (
	dErrors "spendgate/pkg/domain-errors"
)

// RecordSpendRequest is the HTTP request body for POST /orgs/{orgID}/spend.
type RecordSpendRequest struct {
	Amount int64 `json:"amount"`
}

// Validate validates the spend body.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RecordSpendRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return nil
}
