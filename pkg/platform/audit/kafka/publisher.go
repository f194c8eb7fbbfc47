// Package kafka publishes audit events to a Kafka topic. The publisher is an
// optional sink: when brokers are unreachable, a circuit breaker drops to
// log-only so audit never blocks the decision path.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"spendgate/pkg/platform/audit"
	"spendgate/pkg/platform/circuit"
)

// DefaultTopic is the audit event topic.
const DefaultTopic = "spendgate.audit"

// Publisher produces audit events to Kafka.
type Publisher struct {
	client  *kgo.Client
	topic   string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithTopic(topic string) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

// New connects to the brokers and ensures the audit topic exists.
func New(ctx context.Context, brokers []string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &Publisher{
		client:  client,
		topic:   DefaultTopic,
		breaker: circuit.New("audit-kafka", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) ensureTopic(ctx context.Context) error {
	admin := kadm.NewClient(p.client)
	topics, err := admin.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list kafka topics: %w", err)
	}
	if topics.Has(p.topic) {
		return nil
	}
	if _, err := admin.CreateTopic(ctx, 3, 1, nil, p.topic); err != nil {
		return fmt.Errorf("create audit topic %q: %w", p.topic, err)
	}
	return nil
}

// Publish produces one event, keyed by org so per-org ordering holds.
// An open breaker does not short-circuit the produce: the attempt doubles as
// the half-open probe that lets the breaker close on recovery.
func (p *Publisher) Publish(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.OrgID.String()),
		Value: payload,
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened && p.logger != nil {
			p.logger.ErrorContext(ctx, "audit kafka breaker opened", "topic", p.topic, "error", err)
		}
		p.logDropped(ctx, event, err)
		return fmt.Errorf("produce audit event: %w", err)
	}

	if _, change := p.breaker.RecordSuccess(); change.Closed && p.logger != nil {
		p.logger.InfoContext(ctx, "audit kafka breaker closed", "topic", p.topic)
	}
	return nil
}

func (p *Publisher) logDropped(ctx context.Context, event audit.Event, err error) {
	if p.logger == nil {
		return
	}
	p.logger.WarnContext(ctx, "audit event not delivered to kafka",
		"action", event.Action,
		"org_id", event.OrgID,
		"error", err,
	)
}

// Close flushes and releases the client.
func (p *Publisher) Close() {
	p.client.Close()
}
