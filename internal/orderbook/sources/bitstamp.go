package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
)

const defaultBitstampURL = "wss://ws.bitstamp.net"

type bitstampSubscribe struct {
	Event string `json:"event"`
	Data  struct {
		Channel string `json:"channel"`
	} `json:"data"`
}

type bitstampEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type bitstampOrderBook struct {
	Asks []binanceLevel `json:"asks"`
	Bids []binanceLevel `json:"bids"`
}

// BitstampProtocol normalizes Bitstamp's live order book channel into
// domain.InputUpdate values. Unlike Binance it requires an explicit
// subscribe handshake and recognizes an in-band reconnect request.
type BitstampProtocol struct {
	// BaseURL overrides the websocket endpoint, e.g. for tests pointed at
	// an httptest server. Empty uses Bitstamp's production URL.
	BaseURL string
}

var _ Protocol = BitstampProtocol{}

func (BitstampProtocol) Exchange() domain.Exchange { return domain.Bitstamp }

func (p BitstampProtocol) URL(string) string {
	if p.BaseURL == "" {
		return defaultBitstampURL
	}
	return p.BaseURL
}

// OnConnected sends the subscribe frame and blocks, reading frames, until
// the exchange acknowledges the subscription with bts:subscription_succeeded.
// Any other frame observed before the acknowledgment is discarded: per the
// protocol's Connecting state, nothing is emitted until the ack arrives.
func (BitstampProtocol) OnConnected(ctx context.Context, conn *websocket.Conn, pair string) error {
	sub := bitstampSubscribe{Event: "bts:subscribe"}
	sub.Data.Channel = fmt.Sprintf("order_book_%s", pair)
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("bitstamp: send subscribe frame: %w", err)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("bitstamp: await subscription ack: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var env bitstampEnvelope
		if err := json.Unmarshal(frame, &env); err != nil {
			continue
		}
		if env.Event == "bts:subscription_succeeded" {
			return nil
		}
	}
}

func (BitstampProtocol) HandleFrame(frame []byte) (*domain.InputUpdate, bool, error) {
	var env bitstampEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, false, fmt.Errorf("bitstamp: decode envelope: %w", err)
	}

	switch env.Event {
	case "bts:request_reconnect":
		return nil, true, nil
	case "bts:subscription_succeeded":
		return nil, false, nil
	case "data":
		var book bitstampOrderBook
		if err := json.Unmarshal(env.Data, &book); err != nil {
			return nil, false, fmt.Errorf("bitstamp: decode order book data: %w", err)
		}

		asks, err := decodeLevels(book.Asks)
		if err != nil {
			return nil, false, fmt.Errorf("bitstamp: decode asks: %w", err)
		}
		bids, err := decodeLevels(book.Bids)
		if err != nil {
			return nil, false, fmt.Errorf("bitstamp: decode bids: %w", err)
		}

		update, err := domain.NewInputUpdate(domain.Bitstamp, takeTop(asks), takeTop(bids), domain.DefaultTopLevels)
		if err != nil {
			return nil, false, fmt.Errorf("bitstamp: %w", err)
		}
		return &update, false, nil
	default:
		return nil, false, nil
	}
}
