package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputUpdate(t *testing.T) {
	t.Parallel()

	u, err := NewInputUpdate(Binance, []Level{lvl(t, 1, 1)}, []Level{lvl(t, 0.5, 1)}, DefaultTopLevels)
	require.NoError(t, err)
	assert.Equal(t, Binance, u.Exchange())
	assert.Equal(t, []Level{lvl(t, 1, 1)}, u.Asks())
	assert.Equal(t, []Level{lvl(t, 0.5, 1)}, u.Bids())
}

func TestNewInputUpdateUnsortedAsks(t *testing.T) {
	t.Parallel()

	_, err := NewInputUpdate(Binance, []Level{lvl(t, 1, 1), lvl(t, 0.5, 1)}, nil, DefaultTopLevels)
	assert.ErrorIs(t, err, ErrUnsorted)
}

func TestNewInputUpdateUnsortedBids(t *testing.T) {
	t.Parallel()

	_, err := NewInputUpdate(Binance, nil, []Level{lvl(t, 0.5, 1), lvl(t, 1, 1)}, DefaultTopLevels)
	assert.ErrorIs(t, err, ErrUnsorted)
}

func TestNewInputUpdateTooManyLevels(t *testing.T) {
	t.Parallel()

	asks := make([]Level, DefaultTopLevels+1)
	for i := range asks {
		asks[i] = lvl(t, float64(i+1), 1)
	}

	_, err := NewInputUpdate(Binance, asks, nil, DefaultTopLevels)
	assert.ErrorIs(t, err, ErrTooManyLevels)
}

func TestInputUpdateAsksIsDefensiveCopy(t *testing.T) {
	t.Parallel()

	asks := []Level{lvl(t, 1, 1)}
	u, err := NewInputUpdate(Binance, asks, nil, DefaultTopLevels)
	require.NoError(t, err)

	asks[0] = lvl(t, 2, 1)
	assert.Equal(t, lvl(t, 1, 1), u.Asks()[0])
}
