package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	"nftrelay/pkg/models"
	"nftrelay/pkg/retry"
)

type sentText struct {
	destination string
	text        string
	format      notifier.Format
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentText
	err  error
}

func (n *recordingNotifier) SendText(_ context.Context, dest, text string, format notifier.Format) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentText{destination: dest, text: text, format: format})
	return n.err
}

func (n *recordingNotifier) SendPhoto(context.Context, string, string, string, notifier.Format) error {
	return nil
}

func commandEnvelope(payload map[string]interface{}) models.MessageEnvelope {
	return *models.NewMessageEnvelopeBuilder().
		WithID("m-1").
		WithKind(models.KindCommand).
		WithSource("ops").
		WithPayload(payload).
		Build()
}

func TestBrokerHandler_ExecutesAndReplies(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	h := NewBrokerHandler(f.svc, n, logger.NopLogger())

	err := h.Handle(context.Background(), commandEnvelope(map[string]interface{}{
		"destination": "1001",
		"command":     "track",
		"argument":    "abc123",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123"}, f.store.List("1001"))
	require.Len(t, n.sent, 1)
	assert.Equal(t, "1001", n.sent[0].destination)
	assert.Equal(t, f.locales.Get("en").TrackStart("abc123"), n.sent[0].text)
}

func TestBrokerHandler_RejectedCommandStillReplies(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	h := NewBrokerHandler(f.svc, n, logger.NopLogger())

	err := h.Handle(context.Background(), commandEnvelope(map[string]interface{}{
		"destination": "1001",
		"command":     "language",
		"argument":    "xx",
	}))
	require.NoError(t, err)
	require.Len(t, n.sent, 1)
	assert.Equal(t, notifier.FormatPlain, n.sent[0].format)
}

func TestBrokerHandler_MalformedIsFatal(t *testing.T) {
	f := newFixture(t)
	h := NewBrokerHandler(f.svc, &recordingNotifier{}, logger.NopLogger())

	err := h.Handle(context.Background(), commandEnvelope(map[string]interface{}{"command": "list"}))
	require.Error(t, err)
	assert.True(t, retry.IsFatal(err))
}

func TestBrokerHandler_PersistFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	f.persister.fail = true
	n := &recordingNotifier{}
	h := NewBrokerHandler(f.svc, n, logger.NopLogger())

	err := h.Handle(context.Background(), commandEnvelope(map[string]interface{}{
		"destination": "1001",
		"command":     "track",
		"argument":    "abc123",
	}))
	require.Error(t, err)
	assert.False(t, retry.IsFatal(err))
	assert.Empty(t, n.sent)
}

func TestBrokerHandler_IgnoresOtherKinds(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	h := NewBrokerHandler(f.svc, n, logger.NopLogger())

	env := commandEnvelope(map[string]interface{}{"destination": "1001", "command": "list"})
	env.Kind = models.KindNFTEvent

	require.NoError(t, h.Handle(context.Background(), env))
	assert.Empty(t, n.sent)
}

func TestBrokerHandler_ReplyFailureIsNotRetried(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{err: errors.New("blocked")}
	h := NewBrokerHandler(f.svc, n, logger.NopLogger())

	err := h.Handle(context.Background(), commandEnvelope(map[string]interface{}{
		"destination": "1001",
		"command":     "list",
	}))
	assert.NoError(t, err)
}
