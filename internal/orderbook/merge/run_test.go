package merge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPublishesOnceExchangePerUpdate(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan domain.InputUpdate, domain.ExchangeCount)
	var mu sync.Mutex
	var summaries []domain.Summary

	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, in, 2, func(s domain.Summary) {
			mu.Lock()
			summaries = append(summaries, s)
			mu.Unlock()
		})
	}()

	in <- update(t, domain.Binance, nil, []domain.Level{lvl(t, 51, 3)})
	in <- update(t, domain.Bitstamp, nil, []domain.Level{lvl(t, 51, 2)})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(summaries) == 2
	}, time.Second, time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, summaries[0].Bids, 1)
	assert.Len(t, summaries[1].Bids, 2)
}

func TestRunStopsWhenChannelClosed(t *testing.T) {
	t.Parallel()

	in := make(chan domain.InputUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(context.Background(), in, 2, func(domain.Summary) {})
	}()

	close(in)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after input channel closed")
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan domain.InputUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, in, 2, func(domain.Summary) {})
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
