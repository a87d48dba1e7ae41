// Package metrics implements Prometheus metrics for the injection loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsComposedTotal counts packets built by the engine, per protocol.
	PacketsComposedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_packets_composed_total",
			Help: "Total number of packets composed",
		},
		[]string{"protocol"},
	)

	// ComposeErrorsTotal counts compositions rejected before any byte was written.
	ComposeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_compose_errors_total",
			Help: "Total number of failed compositions",
		},
		[]string{"protocol"},
	)

	// PacketsSentTotal counts packets handed to the raw socket.
	PacketsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_packets_sent_total",
			Help: "Total number of packets injected",
		},
		[]string{"protocol"},
	)

	// BytesSentTotal counts injected bytes.
	BytesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_bytes_sent_total",
			Help: "Total number of bytes injected",
		},
		[]string{"protocol"},
	)

	// SendErrorsTotal counts raw socket write failures.
	SendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_send_errors_total",
			Help: "Total number of raw socket write failures",
		},
		[]string{"protocol"},
	)
)
