package publish

import (
	"context"
	"testing"
	"time"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCellNextBlocksUntilFirstSet(t *testing.T) {
	t.Parallel()

	c := NewSummaryCell()
	done := make(chan struct{})

	go func() {
		defer close(done)
		summary, version, ok := c.Next(context.Background(), 0)
		require.True(t, ok)
		assert.Equal(t, uint64(1), version)
		assert.Equal(t, 1.0, summary.Spread)
	}()

	time.Sleep(20 * time.Millisecond)
	c.Set(domain.Summary{Spread: 1.0})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Set")
	}
}

func TestSummaryCellNextReturnsCurrentValueImmediately(t *testing.T) {
	t.Parallel()

	c := NewSummaryCell()
	c.Set(domain.Summary{Spread: 2.0})

	summary, version, ok := c.Next(context.Background(), 0)
	require.True(t, ok)
	assert.Equal(t, uint64(1), version)
	assert.Equal(t, 2.0, summary.Spread)
}

func TestSummaryCellNextSkipsSupersededValues(t *testing.T) {
	t.Parallel()

	c := NewSummaryCell()
	c.Set(domain.Summary{Spread: 1.0})
	c.Set(domain.Summary{Spread: 2.0})
	c.Set(domain.Summary{Spread: 3.0})

	summary, version, ok := c.Next(context.Background(), 0)
	require.True(t, ok)
	assert.Equal(t, uint64(3), version)
	assert.Equal(t, 3.0, summary.Spread)
}

func TestSummaryCellNextUnblocksOnClose(t *testing.T) {
	t.Parallel()

	c := NewSummaryCell()
	done := make(chan bool)

	go func() {
		_, _, ok := c.Next(context.Background(), 0)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	c.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock after Close")
	}
}

func TestSummaryCellNextUnblocksOnContextCancel(t *testing.T) {
	t.Parallel()

	c := NewSummaryCell()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)

	go func() {
		_, _, ok := c.Next(ctx, 0)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock after context cancellation")
	}
}
