package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftrelay/internal/events"
	"nftrelay/internal/logger"
	"nftrelay/pkg/logging"
	"nftrelay/pkg/models"
)

type recordingProducer struct {
	topic  string
	sent   []models.MessageEnvelope
	err    error
	closed bool
}

func (p *recordingProducer) Publish(_ context.Context, topic string, msg models.MessageEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.topic = topic
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

func sampleEvent() events.Event {
	price := 250.0
	return events.Event{
		CollectionID:  "abc123",
		Key:           "T1",
		Type:          events.TypeSale,
		DisplayName:   "Punk #1",
		Price:         &price,
		Currency:      "XRP",
		ReferenceID:   "NFT1",
		ReferenceKind: events.ReferenceNFT,
	}
}

func TestBrokerPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewBrokerPublisher(producer, "nft_events", "relay-service", logger.NopLogger())

	ctx := logging.WithTickID(logging.WithTraceID(context.Background(), "trace-1"), "tick-1")
	require.NoError(t, pub.Publish(ctx, sampleEvent(), []string{"1001", "2002"}))

	require.Len(t, producer.sent, 1)
	msg := producer.sent[0]
	assert.Equal(t, "nft_events", producer.topic)
	assert.Equal(t, models.KindNFTEvent, msg.Kind)
	assert.Equal(t, "relay-service", msg.Source)
	assert.NoError(t, uuid.Validate(msg.ID))
	assert.Equal(t, "abc123:T1", msg.Payload["seen_key"])
	assert.Equal(t, "sale", msg.Payload["type"])
	assert.Equal(t, 250.0, msg.Payload["price"])
	assert.Equal(t, "trace-1", msg.Metadata.TraceID)
	assert.Equal(t, "tick-1", msg.Metadata.TickID)
	assert.Equal(t, []string{"1001", "2002"}, msg.Metadata.Destinations)
	assert.NoError(t, models.ValidateMessageEnvelope(&msg))

	require.NoError(t, pub.Close())
	assert.True(t, producer.closed)
}

func TestBrokerPublisher_Error(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	pub := NewBrokerPublisher(producer, "nft_events", "relay-service", logger.NopLogger())

	err := pub.Publish(context.Background(), sampleEvent(), nil)
	assert.ErrorContains(t, err, "abc123:T1")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), sampleEvent(), nil))
	assert.NoError(t, p.Close())
}
