// Package metrics exposes the Prometheus collectors the aggregator
// registers against the default registry at process start.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExchangeUpdatesTotal counts InputUpdates decoded per exchange.
	ExchangeUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderbook_exchange_updates_total",
		Help: "The total number of order book updates decoded per exchange",
	}, []string{"exchange"})

	// ExchangeDecodeErrorsTotal counts frames that failed to decode per exchange.
	ExchangeDecodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderbook_exchange_decode_errors_total",
		Help: "The total number of exchange frames that failed to decode",
	}, []string{"exchange"})

	// ExchangeReconnectsTotal counts reconnect attempts per exchange.
	ExchangeReconnectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderbook_exchange_reconnects_total",
		Help: "The total number of reconnect attempts per exchange",
	}, []string{"exchange"})

	// ExchangeConnected reports 1 while a given exchange stream is connected, 0 otherwise.
	ExchangeConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orderbook_exchange_connected",
		Help: "Whether the exchange stream is currently connected (1) or not (0)",
	}, []string{"exchange"})

	// MergeUpdatesTotal counts recomputed Summaries published by the Merger.
	MergeUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_merge_updates_total",
		Help: "The total number of recomputed Summaries published by the merger",
	})

	// MergeLatencySeconds observes the time spent recomputing a Summary from an InputUpdate.
	MergeLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderbook_merge_latency_seconds",
		Help:    "Time spent recomputing a Summary from a single InputUpdate",
		Buckets: prometheus.DefBuckets,
	})

	// SubscribersConnected is the current number of active BookSummary subscribers.
	SubscribersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderbook_subscribers_connected",
		Help: "The current number of active BookSummary gRPC subscribers",
	})

	// SubscriberSendsTotal counts Summary messages sent to subscribers.
	SubscriberSendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_subscriber_sends_total",
		Help: "The total number of Summary messages sent to subscribers",
	})

	// SubscriberSendErrorsTotal counts failed sends to subscribers.
	SubscriberSendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_subscriber_send_errors_total",
		Help: "The total number of Summary sends that failed",
	})
)
