package domain

import "fmt"

// InputUpdate represents one top-N snapshot from one exchange. asks is
// sorted by CompareAsk and bids by CompareBid, both best-first; this
// invariant is enforced at construction time rather than debug-asserted,
// since a violated invariant here would otherwise corrupt every Summary the
// merger emits afterwards.
type InputUpdate struct {
	exchange Exchange
	asks     []Level
	bids     []Level
}

// NewInputUpdate validates asks and bids against maxLevels and their
// respective sort orders and returns an InputUpdate, or a decode error
// (wrapping ErrTooManyLevels or ErrUnsorted) describing the violation.
func NewInputUpdate(exchange Exchange, asks, bids []Level, maxLevels int) (InputUpdate, error) {
	if len(asks) > maxLevels {
		return InputUpdate{}, fmt.Errorf("%w: asks has %d levels, max is %d", ErrTooManyLevels, len(asks), maxLevels)
	}
	if len(bids) > maxLevels {
		return InputUpdate{}, fmt.Errorf("%w: bids has %d levels, max is %d", ErrTooManyLevels, len(bids), maxLevels)
	}
	if !IsSorted(asks, Level.CompareAsk) {
		return InputUpdate{}, fmt.Errorf("%w: asks", ErrUnsorted)
	}
	if !IsSorted(bids, Level.CompareBid) {
		return InputUpdate{}, fmt.Errorf("%w: bids", ErrUnsorted)
	}

	return InputUpdate{
		exchange: exchange,
		asks:     append([]Level(nil), asks...),
		bids:     append([]Level(nil), bids...),
	}, nil
}

// Exchange returns the source exchange of this snapshot.
func (u InputUpdate) Exchange() Exchange {
	return u.exchange
}

// Asks returns the sorted ask levels. The caller must not mutate the
// returned slice.
func (u InputUpdate) Asks() []Level {
	return u.asks
}

// Bids returns the sorted bid levels. The caller must not mutate the
// returned slice.
func (u InputUpdate) Bids() []Level {
	return u.bids
}
