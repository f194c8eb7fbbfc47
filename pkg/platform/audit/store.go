package audit

import (
	"context"

	id "spendgate/pkg/domain"
)

// Store persists audit events append-only. Swap with concrete storage
// without touching emitters or the worker.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOrg(ctx context.Context, orgID id.OrgID, limit int) ([]Event, error)
}
