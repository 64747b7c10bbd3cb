package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
)

// binanceLevel is a Binance price/amount pair, both encoded as decimal
// strings per the exchange's depth stream format.
type binanceLevel [2]string

type binanceDepth struct {
	Asks []binanceLevel `json:"asks"`
	Bids []binanceLevel `json:"bids"`
}

const defaultBinanceBaseURL = "wss://stream.binance.com:9443/ws"

// BinanceProtocol normalizes Binance's partial-depth websocket stream
// (<pair>@depth10@100ms) into domain.InputUpdate values. It requires no
// subscribe handshake: the stream begins as soon as the connection opens.
type BinanceProtocol struct {
	// BaseURL overrides the base websocket endpoint, e.g. for tests
	// pointed at an httptest server. Empty uses Binance's production URL.
	BaseURL string
}

var _ Protocol = BinanceProtocol{}

func (BinanceProtocol) Exchange() domain.Exchange { return domain.Binance }

func (p BinanceProtocol) URL(pair string) string {
	base := p.BaseURL
	if base == "" {
		base = defaultBinanceBaseURL
	}
	return fmt.Sprintf("%s/%s@depth%d@100ms", base, pair, domain.DefaultTopLevels)
}

func (BinanceProtocol) OnConnected(_ context.Context, _ *websocket.Conn, _ string) error {
	return nil
}

func (BinanceProtocol) HandleFrame(frame []byte) (*domain.InputUpdate, bool, error) {
	var depth binanceDepth
	if err := json.Unmarshal(frame, &depth); err != nil {
		return nil, false, fmt.Errorf("binance: decode depth frame: %w", err)
	}

	asks, err := decodeLevels(depth.Asks)
	if err != nil {
		return nil, false, fmt.Errorf("binance: decode asks: %w", err)
	}
	bids, err := decodeLevels(depth.Bids)
	if err != nil {
		return nil, false, fmt.Errorf("binance: decode bids: %w", err)
	}

	update, err := domain.NewInputUpdate(domain.Binance, takeTop(asks), takeTop(bids), domain.DefaultTopLevels)
	if err != nil {
		return nil, false, fmt.Errorf("binance: %w", err)
	}
	return &update, false, nil
}

// decodeLevels parses every [price, amount] pair in raw, fully consuming the
// input even though only the first domain.DefaultTopLevels entries of the
// result are ultimately kept by takeTop.
func decodeLevels(raw []binanceLevel) ([]domain.Level, error) {
	levels := make([]domain.Level, len(raw))
	for i, pair := range raw {
		price, err := domain.ParseFinitePositiveF64(pair[0])
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", pair[0], err)
		}
		amount, err := domain.ParseFinitePositiveF64(pair[1])
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", pair[1], err)
		}
		levels[i] = domain.Level{Price: price, Amount: amount}
	}
	return levels, nil
}

func takeTop(levels []domain.Level) []domain.Level {
	if len(levels) > domain.DefaultTopLevels {
		return levels[:domain.DefaultTopLevels]
	}
	return levels
}
