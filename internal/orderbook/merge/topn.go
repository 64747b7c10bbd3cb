// Package merge maintains per-exchange latest snapshots and folds them into
// a single globally sorted top-N Summary on every InputUpdate.
package merge

import "github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"

// topN merges the already-sorted per-exchange level slices in exchanges
// (indexed by exchange ordinal) into a single slice of at most size entries,
// sorted best-first under cmp.
//
// exchanges, cmp and size are all small and bounded (at most
// domain.ExchangeCount slices of at most TopLevels entries each), so a
// linear-insertion merge is used instead of a heap: for every level, scan
// the current output from worst to best to find the first position it is
// not worse than, insert there, and evict the worst entry if the output
// grew past size. Ties are broken by cmp's own tie-break rule; among fully
// equal (price, amount) pairs the lower exchange ordinal wins because it is
// scanned first and strictly-worse comparisons never displace it.
func topN(exchanges [][]domain.Level, cmp domain.LevelComparator, size int) []domain.OutLevel {
	output := make([]domain.OutLevel, 0, size)

	for exchangeOrdinal, levels := range exchanges {
		exchange := domain.Exchange(exchangeOrdinal)
		for _, level := range levels {
			insertOutLevel(&output, domain.OutLevel{
				Exchange: exchange,
				Price:    level.Price,
				Amount:   level.Amount,
			}, level, cmp, size)
		}
	}

	return output
}

func insertOutLevel(output *[]domain.OutLevel, out domain.OutLevel, level domain.Level, cmp domain.LevelComparator, size int) {
	o := *output

	if len(o) == 0 {
		*output = append(o, out)
		return
	}

	insertIndex := -1
	for i := len(o) - 1; i >= 0; i-- {
		existing := domain.Level{Price: o[i].Price, Amount: o[i].Amount}
		if cmp(level, existing) < 0 {
			insertIndex = i
			continue
		}
		if len(o) < size {
			insertIndex = i + 1
		}
		break
	}

	if insertIndex < 0 {
		return
	}

	if len(o) >= size {
		o = o[:len(o)-1]
	}
	o = append(o, domain.OutLevel{})
	copy(o[insertIndex+1:], o[insertIndex:])
	o[insertIndex] = out
	*output = o
}
