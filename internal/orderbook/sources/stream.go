// Package sources connects to exchange websocket feeds and normalizes their
// top-of-book frames into domain.InputUpdate values.
package sources

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/dimajoyti/orderbook-aggregator/pkg/metrics"
)

// Protocol captures everything that differs between exchanges: how to reach
// the feed, how to complete the handshake once connected, and how to turn a
// single text frame into an InputUpdate (or a control signal).
type Protocol interface {
	// Exchange identifies which exchange this protocol normalizes updates for.
	Exchange() domain.Exchange

	// URL returns the websocket URL to dial for pair.
	URL(pair string) string

	// OnConnected runs immediately after a successful dial, before frames are
	// read. It may write a subscribe frame and block until the exchange
	// acknowledges it. Returning an error aborts the session and triggers a
	// reconnect under backoff.
	OnConnected(ctx context.Context, conn *websocket.Conn, pair string) error

	// HandleFrame decodes one text frame. update is non-nil on a normal
	// book snapshot. reconnect requests an immediate, error-free transition
	// back to Connecting (e.g. Bitstamp's bts:request_reconnect). err is
	// non-nil on a decode failure, which is logged and also triggers a
	// reconnect.
	HandleFrame(frame []byte) (update *domain.InputUpdate, reconnect bool, err error)
}

// NewInitialBackoff builds the backoff schedule used while establishing the
// very first connection: exponential with jitter, bounded so that a
// permanently unreachable exchange eventually surfaces as a fatal error
// instead of retrying forever before a connection has ever been established.
func NewInitialBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

// NewReconnectBackoff builds the backoff schedule used for every reconnect
// after a connection (dial plus any subscribe handshake) has been
// established at least once. It never
// gives up: a Source Stream must recover from transient failures forever.
func NewReconnectBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	return b
}

// Run drives proto's Connecting/Streaming state machine until ctx is
// cancelled, sending every decoded InputUpdate to out (blocking, applying
// backpressure per the fan-in queue's contract). It returns a non-nil error
// only when the very first connection attempt cannot be established before
// its backoff budget is exhausted; every later failure is recovered
// internally by reconnecting. It uses NewInitialBackoff and
// NewReconnectBackoff as its backoff schedules; use RunWithBackoffs directly
// to inject different ones (tests use this to keep the fatal-timeout path
// fast).
func Run(ctx context.Context, logger *zap.Logger, proto Protocol, pair string, out chan<- domain.InputUpdate) error {
	return RunWithBackoffs(ctx, logger, proto, pair, out, NewInitialBackoff, NewReconnectBackoff)
}

// RunWithBackoffs is Run with its backoff schedules supplied explicitly.
func RunWithBackoffs(ctx context.Context, logger *zap.Logger, proto Protocol, pair string, out chan<- domain.InputUpdate, newInitialBackoff, newReconnectBackoff func() backoff.BackOff) error {
	everConnected := false
	initial := newInitialBackoff()
	reconnect := newReconnectBackoff()
	exchangeLabel := proto.Exchange().String()
	connected := metrics.ExchangeConnected.WithLabelValues(exchangeLabel)
	connected.Set(0)
	defer connected.Set(0)

	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, proto.URL(pair), http.Header{})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !everConnected {
				wait := initial.NextBackOff()
				if wait == backoff.Stop {
					return errors.New("sources: could not establish initial connection to " + proto.Exchange().String() + ": " + err.Error())
				}
				logger.Warn("dial failed, retrying", zap.String("exchange", proto.Exchange().String()), zap.Error(err), zap.Duration("backoff", wait))
				sleep(ctx, wait)
				continue
			}
			metrics.ExchangeReconnectsTotal.WithLabelValues(exchangeLabel).Inc()
			wait := reconnect.NextBackOff()
			logger.Error("dial failed during reconnect", zap.String("exchange", proto.Exchange().String()), zap.Error(err), zap.Duration("backoff", wait))
			sleep(ctx, wait)
			continue
		}

		if err := proto.OnConnected(ctx, conn, pair); err != nil {
			conn.Close()
			if ctx.Err() != nil {
				return nil
			}
			if !everConnected {
				wait := initial.NextBackOff()
				if wait == backoff.Stop {
					return errors.New("sources: could not complete initial handshake with " + proto.Exchange().String() + ": " + err.Error())
				}
				logger.Warn("handshake failed, retrying", zap.String("exchange", proto.Exchange().String()), zap.Error(err), zap.Duration("backoff", wait))
				sleep(ctx, wait)
				continue
			}
			metrics.ExchangeReconnectsTotal.WithLabelValues(exchangeLabel).Inc()
			wait := reconnect.NextBackOff()
			logger.Error("handshake failed during reconnect", zap.String("exchange", proto.Exchange().String()), zap.Error(err), zap.Duration("backoff", wait))
			sleep(ctx, wait)
			continue
		}

		everConnected = true
		connected.Set(1)
		reconnect.Reset()
		err = stream(ctx, logger, proto, conn, out)
		conn.Close()
		connected.Set(0)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			metrics.ExchangeReconnectsTotal.WithLabelValues(exchangeLabel).Inc()
			logger.Error("stream session ended, reconnecting", zap.String("exchange", proto.Exchange().String()), zap.Error(err))
		}
	}
}

// stream reads frames from conn until it closes, a transport error occurs,
// a frame fails to decode, or proto requests a reconnect; it returns nil only
// when the session ended
// for a reason that is not itself an error (Close frame, reconnect request).
func stream(ctx context.Context, logger *zap.Logger, proto Protocol, conn *websocket.Conn, out chan<- domain.InputUpdate) error {
	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		if messageType != websocket.TextMessage {
			continue
		}

		update, reconnect, err := proto.HandleFrame(frame)
		if err != nil {
			metrics.ExchangeDecodeErrorsTotal.WithLabelValues(proto.Exchange().String()).Inc()
			logger.Error("decode failed", zap.String("exchange", proto.Exchange().String()), zap.Error(err))
			return err
		}
		if reconnect {
			return nil
		}
		if update == nil {
			continue
		}
		metrics.ExchangeUpdatesTotal.WithLabelValues(proto.Exchange().String()).Inc()

		select {
		case out <- *update:
		case <-ctx.Done():
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
