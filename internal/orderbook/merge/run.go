package merge

import (
	"context"
	"time"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/dimajoyti/orderbook-aggregator/pkg/metrics"
)

// Run consumes InputUpdates from in until ctx is cancelled or in is closed,
// maintaining a fresh State and invoking publish with the recomputed
// Summary after every update. Run never produces an error of its own: the
// merger is a pure function of the updates it observes, per the component
// design's "the Merger itself does not produce errors" rule.
func Run(ctx context.Context, in <-chan domain.InputUpdate, topLevels int, publish func(domain.Summary)) {
	state := NewState(topLevels)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-in:
			if !ok {
				return
			}
			start := time.Now()
			summary := state.Update(update)
			metrics.MergeLatencySeconds.Observe(time.Since(start).Seconds())
			metrics.MergeUpdatesTotal.Inc()
			publish(summary)
		}
	}
}
