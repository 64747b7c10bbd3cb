package domain

// OutLevel is a Level annotated with the exchange it came from, as it
// appears in a merged Summary.
type OutLevel struct {
	Exchange Exchange
	Price    FinitePositiveF64
	Amount   FinitePositiveF64
}

// Summary is the outward-facing merged top-of-book view sent to every
// subscriber. Asks is sorted best-first by CompareAsk, Bids best-first by
// CompareBid.
type Summary struct {
	Spread float64
	Asks   []OutLevel
	Bids   []OutLevel
}

// NewSummary computes Spread from the best ask and best bid in asks/bids,
// per the "empty side yields a zero spread" rule.
func NewSummary(asks, bids []OutLevel) Summary {
	var spread float64
	if len(asks) > 0 && len(bids) > 0 {
		spread = asks[0].Price.Float64() - bids[0].Price.Float64()
	}
	return Summary{Spread: spread, Asks: asks, Bids: bids}
}
