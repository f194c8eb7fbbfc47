package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these wrapped in a
// coded domain error so services can branch on the code while errors.Is still
// matches the underlying fact.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound = errors.New("not found")
)
