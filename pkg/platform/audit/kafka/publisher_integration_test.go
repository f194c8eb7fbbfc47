//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "spendgate/pkg/domain"
	"spendgate/pkg/platform/audit"
	"spendgate/pkg/testutil/containers"
)

func TestPublisher_Integration(t *testing.T) {
	rc := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	publisher, err := New(ctx, rc.Brokers, WithTopic("spendgate.audit.test"))
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	orgID, err := id.ParseOrgID("6e8d4b2a-1c9f-4e73-a0b5-8f3d6c2e1a47")
	require.NoError(t, err)

	event := audit.Event{
		Timestamp:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		OrgID:         orgID,
		Action:        audit.ActionDecisionMade,
		Outcome:       "approval_required",
		ReasonCodes:   []string{"approval_threshold"},
		CorrelationID: "corr-kafka-1",
	}
	require.NoError(t, publisher.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rc.Brokers...),
		kgo.ConsumeTopics("spendgate.audit.test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, orgID.String(), string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, audit.ActionDecisionMade, got.Action)
	assert.Equal(t, "approval_required", got.Outcome)
	assert.Equal(t, "corr-kafka-1", got.CorrelationID)
	assert.Equal(t, []string{"approval_threshold"}, got.ReasonCodes)
}
