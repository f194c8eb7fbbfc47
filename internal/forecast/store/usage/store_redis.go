package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
)

const (
	usageKeyPrefix = "spendgate:usage:"

	// Counters outlive their period by a month so late spend events and
	// end-of-period reads still resolve, then expire on their own.
	usageTTL = 62 * 24 * time.Hour
)

// RedisStore is a Redis-backed usage counter store. Counters are shared
// across instances; INCRBY keeps concurrent spend recording atomic.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed usage store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func usageKey(orgID id.OrgID, period string) string {
	return fmt.Sprintf("%s%s:%s", usageKeyPrefix, orgID, period)
}

// Add increments the counter for an org and period, returning the new total.
func (s *RedisStore) Add(ctx context.Context, orgID id.OrgID, period string, amount int64) (int64, error) {
	key := usageKey(orgID, period)

	total, err := s.client.IncrBy(ctx, key, amount).Result()
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "increment usage counter")
	}
	// Refresh the TTL on every write; a failure here only delays expiry.
	s.client.Expire(ctx, key, usageTTL)
	return total, nil
}

// Total returns the accumulated spend for an org and period. A period with
// no recorded spend totals zero.
func (s *RedisStore) Total(ctx context.Context, orgID id.OrgID, period string) (int64, error) {
	total, err := s.client.Get(ctx, usageKey(orgID, period)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read usage counter")
	}
	return total, nil
}
