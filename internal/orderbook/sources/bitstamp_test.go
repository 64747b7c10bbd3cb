package sources

import (
	"testing"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitstampProtocolURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultBitstampURL, BitstampProtocol{}.URL("btcusd"))
}

func TestBitstampProtocolHandleFrameData(t *testing.T) {
	t.Parallel()

	frame := []byte(`{"event":"data","channel":"order_book_btcusd","data":{"asks":[["1.0","1.0"]],"bids":[["0.5","1.0"]]}}`)

	update, reconnect, err := BitstampProtocol{}.HandleFrame(frame)
	require.NoError(t, err)
	assert.False(t, reconnect)
	require.NotNil(t, update)
	assert.Equal(t, domain.Bitstamp, update.Exchange())
	require.Len(t, update.Asks(), 1)
	assert.Equal(t, 1.0, update.Asks()[0].Price.Float64())
}

func TestBitstampProtocolHandleFrameRequestReconnect(t *testing.T) {
	t.Parallel()

	frame := []byte(`{"event":"bts:request_reconnect"}`)

	update, reconnect, err := BitstampProtocol{}.HandleFrame(frame)
	require.NoError(t, err)
	assert.True(t, reconnect)
	assert.Nil(t, update)
}

func TestBitstampProtocolHandleFrameSubscriptionAckIgnored(t *testing.T) {
	t.Parallel()

	frame := []byte(`{"event":"bts:subscription_succeeded"}`)

	update, reconnect, err := BitstampProtocol{}.HandleFrame(frame)
	require.NoError(t, err)
	assert.False(t, reconnect)
	assert.Nil(t, update)
}

func TestBitstampProtocolHandleFrameUnknownEventIgnored(t *testing.T) {
	t.Parallel()

	frame := []byte(`{"event":"bts:heartbeat"}`)

	update, reconnect, err := BitstampProtocol{}.HandleFrame(frame)
	require.NoError(t, err)
	assert.False(t, reconnect)
	assert.Nil(t, update)
}

func TestBitstampProtocolHandleFrameInvalidData(t *testing.T) {
	t.Parallel()

	frame := []byte(`{"event":"data","data":{"asks":[["NaN","1.0"]],"bids":[]}}`)
	_, _, err := BitstampProtocol{}.HandleFrame(frame)
	assert.Error(t, err)
}
