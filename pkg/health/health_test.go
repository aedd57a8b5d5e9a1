package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string {
	return s.name
}

func (s stubChecker) Check(context.Context) error {
	return s.err
}

func TestCheckerRegistry_Aggregates(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{name: "empty", want: StatusHealthy},
		{name: "all ok", checkers: []Checker{stubChecker{name: "a"}, stubChecker{name: "b"}}, want: StatusHealthy},
		{name: "degraded", checkers: []Checker{stubChecker{name: "a"}, stubChecker{name: "b", err: Degraded("slow")}}, want: StatusDegraded},
		{name: "unhealthy wins", checkers: []Checker{stubChecker{name: "a", err: errors.New("down")}, stubChecker{name: "b", err: Degraded("slow")}}, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCheckerRegistry()
			for _, c := range tt.checkers {
				r.Register(c)
			}

			h := r.Check(context.Background())
			assert.Equal(t, tt.want, h.Status)
			assert.Len(t, h.Checks, len(tt.checkers))
		})
	}
}

func TestLivenessChecker(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var last time.Time
	c := NewLivenessChecker("poller", func() time.Time { return last }, 3*time.Minute)
	c.now = func() time.Time { return now }

	var degraded *DegradedError
	assert.True(t, errors.As(c.Check(context.Background()), &degraded))

	last = now.Add(-time.Minute)
	assert.NoError(t, c.Check(context.Background()))

	last = now.Add(-5 * time.Minute)
	err := c.Check(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.As(err, &degraded))
}

func TestBreakerChecker(t *testing.T) {
	open := false
	c := NewBreakerChecker("marketplace", func() bool { return open })

	assert.NoError(t, c.Check(context.Background()))
	open = true
	assert.Error(t, c.Check(context.Background()))
}
