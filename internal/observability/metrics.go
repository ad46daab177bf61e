// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedCacheLookups counts feed cache lookups by outcome (hit/miss).
	FeedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_lookups_total",
		Help: "Total feed cache lookups by outcome",
	}, []string{"outcome"})

	// ActiveWebSockets is the gauge of open chat websocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yatube_websocket_connections",
		Help: "Number of active chat WebSocket connections",
	})

	// ChatGroupConnections is the gauge of connections per group channel.
	ChatGroupConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "yatube_chat_group_connections",
		Help: "Number of WebSocket connections per group channel",
	}, []string{"group"})

	// ChatMessagesTotal counts chat messages fanned out per group.
	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_chat_messages_total",
		Help: "Total number of chat messages broadcast per group",
	}, []string{"group"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)
