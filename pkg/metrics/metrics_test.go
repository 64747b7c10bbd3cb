package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestExchangeUpdatesTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(ExchangeUpdatesTotal.WithLabelValues("binance"))
	ExchangeUpdatesTotal.WithLabelValues("binance").Inc()
	after := testutil.ToFloat64(ExchangeUpdatesTotal.WithLabelValues("binance"))
	assert.Equal(t, before+1, after)
}

func TestSubscribersConnectedGauge(t *testing.T) {
	before := testutil.ToFloat64(SubscribersConnected)
	SubscribersConnected.Inc()
	defer SubscribersConnected.Dec()
	after := testutil.ToFloat64(SubscribersConnected)
	assert.Equal(t, before+1, after)
}
