package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nftrelay/internal/broker"
	"nftrelay/internal/events"
	"nftrelay/internal/logger"
	"nftrelay/pkg/logging"
	"nftrelay/pkg/metrics"
	"nftrelay/pkg/models"
)

// Publisher makes novel events observable outside the relay.
type Publisher interface {
	Publish(ctx context.Context, event events.Event, destinations []string) error
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, events.Event, []string) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

// BrokerPublisher writes each event as a MessageEnvelope to one topic.
type BrokerPublisher struct {
	producer broker.Producer
	topic    string
	source   string
	logger   logger.Logger
}

func NewBrokerPublisher(producer broker.Producer, topic, source string, log logger.Logger) *BrokerPublisher {
	return &BrokerPublisher{
		producer: producer,
		topic:    topic,
		source:   source,
		logger:   log,
	}
}

func (p *BrokerPublisher) Publish(ctx context.Context, event events.Event, destinations []string) error {
	envelope := NewEventEnvelope(ctx, event, destinations, p.source)

	if err := p.producer.Publish(ctx, p.topic, *envelope); err != nil {
		metrics.IncFeedPublished("error")
		return fmt.Errorf("failed to publish event %s: %w", event.SeenKey(), err)
	}

	metrics.IncFeedPublished("ok")
	p.logger.DebugwCtx(ctx, "Event published to feed",
		"topic", p.topic,
		"message_id", envelope.ID,
		"key", event.Key,
	)
	return nil
}

func (p *BrokerPublisher) Close() error {
	return p.producer.Close()
}

// NewEventEnvelope wraps event for the feed. The id is random; the seen key is
// part of the payload for consumers that want to deduplicate.
func NewEventEnvelope(ctx context.Context, event events.Event, destinations []string, source string) *models.MessageEnvelope {
	payload := event.Attributes()
	payload["seen_key"] = event.SeenKey()
	payload["reference_kind"] = string(event.ReferenceKind)

	return models.NewMessageEnvelopeBuilder().
		WithID(uuid.NewString()).
		WithKind(models.KindNFTEvent).
		WithSource(source).
		WithPayload(payload).
		WithMetadata(models.Metadata{
			TraceID:      logging.GetTraceID(ctx),
			TickID:       logging.GetTickID(ctx),
			CollectionID: event.CollectionID,
			Destinations: append([]string(nil), destinations...),
		}).
		Build()
}
