// Package publish holds the most recent merged Summary and serves it to any
// number of gRPC subscribers under last-value-wins semantics.
package publish

import (
	"context"
	"sync"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
)

// SummaryCell is a single-slot broadcast cell: one writer (the Merger)
// stores a new Summary on every Update, and any number of readers can wait
// for the next change. A reader that misses an intermediate write simply
// observes the latest value on its next wake; no history is retained and no
// delivery is guaranteed for values superseded before a reader gets to them.
//
// The condition variable the Merger signals on every write is realized as a
// channel that Next selects on alongside ctx.Done(), rather than
// sync.Cond: a Cond's Wait has no way to observe context cancellation
// without a second goroutine parked on cond.Wait for the lifetime of every
// subscription, which would leak until the next unrelated write woke it.
type SummaryCell struct {
	mu      sync.Mutex
	value   *domain.Summary
	version uint64
	changed chan struct{}
	closed  bool
}

// NewSummaryCell returns an empty cell: no Summary has been published yet.
func NewSummaryCell() *SummaryCell {
	return &SummaryCell{changed: make(chan struct{})}
}

// Set stores summary as the latest value and wakes every waiter.
func (c *SummaryCell) Set(summary domain.Summary) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.value = &summary
	c.version++
	old := c.changed
	c.changed = make(chan struct{})
	c.mu.Unlock()
	close(old)
}

// Close wakes every waiter permanently. A call to Next whose lastVersion is
// older than the stored value still receives that value once; every other
// call to Next after Close returns immediately with ok=false. Used to unwind
// subscribers during shutdown.
func (c *SummaryCell) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	old := c.changed
	c.mu.Unlock()
	close(old)
}

// Next blocks until a Summary newer than the one last observed under
// lastVersion is available, ctx is cancelled, or the cell is closed. Pass
// lastVersion=0 on the first call to receive whatever is currently
// published (if anything) without waiting for a change. ok is false when
// ctx was cancelled or the cell closed before a new value arrived.
func (c *SummaryCell) Next(ctx context.Context, lastVersion uint64) (summary domain.Summary, version uint64, ok bool) {
	for {
		c.mu.Lock()
		if c.value != nil && c.version != lastVersion {
			v, ver := *c.value, c.version
			c.mu.Unlock()
			return v, ver, true
		}
		if c.closed {
			c.mu.Unlock()
			return domain.Summary{}, lastVersion, false
		}
		waitCh := c.changed
		c.mu.Unlock()

		select {
		case <-waitCh:
		case <-ctx.Done():
			return domain.Summary{}, lastVersion, false
		}
	}
}
