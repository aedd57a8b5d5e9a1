package poller

import (
	"errors"
	"sync/atomic"
	"time"
)

// ErrTickInProgress is returned by Tick when another tick is still running.
var ErrTickInProgress = errors.New("tick already in progress")

// TickReport summarizes one tick.
type TickReport struct {
	TickID        string        `json:"tick_id"`
	Destinations  int           `json:"destinations"`
	Collections   int           `json:"collections"`
	FetchFailures int64         `json:"fetch_failures"`
	Events        int64         `json:"events"`
	Filtered      int64         `json:"filtered"`
	Novel         int64         `json:"novel"`
	Duplicates    int64         `json:"duplicates"`
	DedupErrors   int64         `json:"dedup_errors"`
	Dispatched    int64         `json:"dispatched"`
	DispatchFails int64         `json:"dispatch_failures"`
	Trimmed       int           `json:"trimmed"`
	Duration      time.Duration `json:"duration_ns"`
}

type tickCounters struct {
	fetchFailures atomic.Int64
	events        atomic.Int64
	filtered      atomic.Int64
	novel         atomic.Int64
	duplicates    atomic.Int64
	dedupErrors   atomic.Int64
	dispatched    atomic.Int64
	dispatchFails atomic.Int64
}

func (c *tickCounters) fill(r *TickReport) {
	r.FetchFailures = c.fetchFailures.Load()
	r.Events = c.events.Load()
	r.Filtered = c.filtered.Load()
	r.Novel = c.novel.Load()
	r.Duplicates = c.duplicates.Load()
	r.DedupErrors = c.dedupErrors.Load()
	r.Dispatched = c.dispatched.Load()
	r.DispatchFails = c.dispatchFails.Load()
}

// recipient is one destination tracking a collection.
type recipient struct {
	destination string
	locale      string
}
