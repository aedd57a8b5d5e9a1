package poller

import (
	"context"
	"sync"
	"time"

	"nftrelay/internal/events"
)

type job struct {
	recipient recipient
	event     events.Event
}

// outbox collects the alerts of one tick, one FIFO queue per destination.
type outbox struct {
	mu     sync.Mutex
	byDest map[string][]job
	order  []string
}

func newOutbox() *outbox {
	return &outbox{byDest: make(map[string][]job)}
}

func (o *outbox) add(r recipient, ev events.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.byDest[r.destination]; !ok {
		o.order = append(o.order, r.destination)
	}
	o.byDest[r.destination] = append(o.byDest[r.destination], job{recipient: r, event: ev})
}

// queues returns the queues in the order their destinations were first seen.
func (o *outbox) queues() [][]job {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([][]job, 0, len(o.order))
	for _, dest := range o.order {
		out = append(out, o.byDest[dest])
	}
	return out
}

// drainContext ignores parent's cancellation for grace, so alerts already
// marked seen still get their attempt once shutdown begins.
func drainContext(parent context.Context, grace time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	stop := context.AfterFunc(parent, func() {
		time.AfterFunc(grace, cancel)
	})
	return ctx, func() {
		stop()
		cancel()
	}
}
