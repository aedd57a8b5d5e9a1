package broker

import (
	"context"

	"nftrelay/pkg/models"
)

// Producer publishes envelopes. For NATS the topic is the subject.
type Producer interface {
	Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error
	Close() error
}

// Consumer delivers envelopes from topic to handler until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

type HandlerFunc func(ctx context.Context, msg models.MessageEnvelope) error
