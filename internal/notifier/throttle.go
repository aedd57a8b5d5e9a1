package notifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until a destination may receive another message.
type Pacer interface {
	Wait(ctx context.Context, destination string) error
}

// ThrottleConfig holds the flood limits of a transport: one bucket shared by
// every send plus one bucket per destination.
type ThrottleConfig struct {
	RPS          float64
	Burst        int
	PerChatRPS   float64
	PerChatBurst int
	IdleAfter    time.Duration
}

// Throttle is a Pacer backed by token buckets. Per-destination buckets that
// sat unused for IdleAfter are dropped on the next Wait.
type Throttle struct {
	cfg    ThrottleConfig
	global *rate.Limiter

	mu        sync.Mutex
	perChat   map[string]*chatLimiter
	lastSweep time.Time
	now       func() time.Time
}

type chatLimiter struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

func NewThrottle(cfg ThrottleConfig) *Throttle {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.PerChatBurst <= 0 {
		cfg.PerChatBurst = 1
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = 10 * time.Minute
	}
	return &Throttle{
		cfg:     cfg,
		global:  rate.NewLimiter(limit(cfg.RPS), cfg.Burst),
		perChat: make(map[string]*chatLimiter),
		now:     time.Now,
	}
}

func limit(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}

// Wait takes the destination's token first, then the shared one, so a chat
// that is over its own limit does not hold back other chats.
func (t *Throttle) Wait(ctx context.Context, destination string) error {
	if err := t.chat(destination).Wait(ctx); err != nil {
		return err
	}
	return t.global.Wait(ctx)
}

func (t *Throttle) chat(destination string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) >= t.cfg.IdleAfter {
		for dest, cl := range t.perChat {
			if now.Sub(cl.lastUsed) >= t.cfg.IdleAfter {
				delete(t.perChat, dest)
			}
		}
		t.lastSweep = now
	}

	cl, ok := t.perChat[destination]
	if !ok {
		cl = &chatLimiter{limiter: rate.NewLimiter(limit(t.cfg.PerChatRPS), t.cfg.PerChatBurst)}
		t.perChat[destination] = cl
	}
	cl.lastUsed = now
	return cl.limiter
}

// Paced wraps a Notifier so every send first waits on the Pacer. ctx bounds
// both the wait and the send.
type Paced struct {
	next  Notifier
	pacer Pacer
}

func NewPaced(next Notifier, pacer Pacer) *Paced {
	return &Paced{next: next, pacer: pacer}
}

func (p *Paced) SendText(ctx context.Context, destination, text string, format Format) error {
	if err := p.pacer.Wait(ctx, destination); err != nil {
		return err
	}
	return p.next.SendText(ctx, destination, text, format)
}

func (p *Paced) SendPhoto(ctx context.Context, destination, imageURL, caption string, format Format) error {
	if err := p.pacer.Wait(ctx, destination); err != nil {
		return err
	}
	return p.next.SendPhoto(ctx, destination, imageURL, caption, format)
}
