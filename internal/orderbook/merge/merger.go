package merge

import "github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"

// State holds the latest InputUpdate received from every exchange and
// folds them into a merged Summary. It is owned exclusively by whichever
// goroutine calls Update; it is not safe for concurrent use.
type State struct {
	topLevels int
	asks      [][]domain.Level
	bids      [][]domain.Level
}

// NewState returns an empty State sized for domain.ExchangeCount exchanges.
// Each side of every returned Summary holds at most topLevels *
// domain.ExchangeCount levels; the per-exchange snapshots are stored as
// received and are not truncated to topLevels.
func NewState(topLevels int) *State {
	return &State{
		topLevels: topLevels,
		asks:      make([][]domain.Level, domain.ExchangeCount),
		bids:      make([][]domain.Level, domain.ExchangeCount),
	}
}

// Update replaces the stored snapshot for update's exchange with update's
// asks and bids, discarding whatever was stored for that exchange before,
// and returns the recomputed Summary. Exactly one Summary is returned per
// call; no deduplication is performed, so consecutive calls with
// unchanged top-N content return structurally equal summaries.
func (s *State) Update(update domain.InputUpdate) domain.Summary {
	exchange := int(update.Exchange())
	s.asks[exchange] = update.Asks()
	s.bids[exchange] = update.Bids()

	size := s.topLevels * domain.ExchangeCount
	asks := topN(s.asks, domain.Level.CompareAsk, size)
	bids := topN(s.bids, domain.Level.CompareBid, size)

	return domain.NewSummary(asks, bids)
}
