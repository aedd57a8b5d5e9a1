package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_PerChatLimitDoesNotBlockOtherChats(t *testing.T) {
	th := NewThrottle(ThrottleConfig{PerChatRPS: 1, PerChatBurst: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, th.Wait(ctx, "busy"))
	require.NoError(t, th.Wait(ctx, "quiet"))
	assert.Error(t, th.Wait(ctx, "busy"))
}

func TestThrottle_GlobalLimitSpansChats(t *testing.T) {
	th := NewThrottle(ThrottleConfig{RPS: 1, Burst: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, th.Wait(ctx, "a"))
	assert.Error(t, th.Wait(ctx, "b"))
}

func TestThrottle_DropsIdleChats(t *testing.T) {
	now := time.Unix(1700000000, 0)
	th := NewThrottle(ThrottleConfig{IdleAfter: time.Minute})
	th.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, th.Wait(ctx, "a"))
	require.NoError(t, th.Wait(ctx, "b"))
	assert.Len(t, th.perChat, 2)

	now = now.Add(2 * time.Minute)
	require.NoError(t, th.Wait(ctx, "b"))
	assert.Len(t, th.perChat, 1)
	assert.Contains(t, th.perChat, "b")
}

type countingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *countingNotifier) SendText(_ context.Context, _, text string, _ Format) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *countingNotifier) SendPhoto(context.Context, string, string, string, Format) error {
	return nil
}

func TestPaced_WaitsBeforeSending(t *testing.T) {
	next := &countingNotifier{}
	paced := NewPaced(next, NewThrottle(ThrottleConfig{PerChatRPS: 1, PerChatBurst: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, paced.SendText(ctx, "D", "first", FormatPlain))
	assert.Error(t, paced.SendText(ctx, "D", "second", FormatPlain))
	assert.Equal(t, []string{"first"}, next.texts)
}
