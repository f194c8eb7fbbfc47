package models

import (
	"fmt"
	"strings"
)

// RequestPatch is a partial transaction-request override carried by an
// alternative or coach tip. Nil fields mean "leave unchanged". The engine
// never applies a patch itself; it only predicts what the patched request
// would produce.
type RequestPatch struct {
	Method    *PaymentMethod `json:"method,omitempty"`
	Category  *Category      `json:"category,omitempty"`
	Region    *string        `json:"region,omitempty"`
	Amount    *int64         `json:"amount,omitempty"`
	TimeOfDay *MinuteOfDay   `json:"time_of_day,omitempty"`
	Purpose   *string        `json:"purpose,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p RequestPatch) IsZero() bool {
	return p.Method == nil && p.Category == nil && p.Region == nil &&
		p.Amount == nil && p.TimeOfDay == nil && p.Purpose == nil
}

// ApplyTo returns a copy of the request with the patch's fields overridden.
func (p RequestPatch) ApplyTo(req TransactionRequest) TransactionRequest {
	out := req
	if p.Method != nil {
		out.Method = *p.Method
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Region != nil {
		out.Region = *p.Region
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.TimeOfDay != nil {
		out.TimeOfDay = *p.TimeOfDay
	}
	if p.Purpose != nil {
		out.Purpose = *p.Purpose
	}
	return out
}

// Key serializes the patch deterministically for deduplication.
func (p RequestPatch) Key() string {
	var parts []string
	if p.Method != nil {
		parts = append(parts, "method="+string(*p.Method))
	}
	if p.Category != nil {
		parts = append(parts, "category="+string(*p.Category))
	}
	if p.Region != nil {
		parts = append(parts, "region="+*p.Region)
	}
	if p.Amount != nil {
		parts = append(parts, fmt.Sprintf("amount=%d", *p.Amount))
	}
	if p.TimeOfDay != nil {
		parts = append(parts, "time_of_day="+p.TimeOfDay.String())
	}
	if p.Purpose != nil {
		parts = append(parts, "purpose="+*p.Purpose)
	}
	return strings.Join(parts, "&")
}

// Convenience constructors keep remediation code readable.

func PatchMethod(m PaymentMethod) RequestPatch { return RequestPatch{Method: &m} }
func PatchCategory(c Category) RequestPatch    { return RequestPatch{Category: &c} }
func PatchRegion(r string) RequestPatch        { return RequestPatch{Region: &r} }
func PatchAmount(a int64) RequestPatch         { return RequestPatch{Amount: &a} }
func PatchTimeOfDay(t MinuteOfDay) RequestPatch {
	return RequestPatch{TimeOfDay: &t}
}
