package program

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"spendgate/internal/authorize/ports"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/sentinel"
)

const programKeyPrefix = "spendgate:program:"

// RedisRegistry is a Redis-backed program registry. This is the
// production-recommended implementation for distributed deployments where
// multiple instances need to share funding state.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed program registry.
func NewRedis(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

// Get retrieves the program record for an organization.
func (r *RedisRegistry) Get(ctx context.Context, orgID id.OrgID) (ports.ProgramRecord, error) {
	raw, err := r.client.Get(ctx, programKeyPrefix+orgID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.ProgramRecord{}, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "no program record for org "+orgID.String())
	}
	if err != nil {
		return ports.ProgramRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "fetch program record")
	}

	var record ports.ProgramRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return ports.ProgramRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "decode program record")
	}
	return record, nil
}

// Put replaces the program record for an organization. Records carry no TTL;
// funding state stays until the next admin update.
func (r *RedisRegistry) Put(ctx context.Context, orgID id.OrgID, record ports.ProgramRecord) error {
	if !record.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid program status")
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode program record")
	}
	if err := r.client.Set(ctx, programKeyPrefix+orgID.String(), raw, 0).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist program record")
	}
	return nil
}
