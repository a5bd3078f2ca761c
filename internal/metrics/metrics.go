// Package metrics registers the board's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WritesTotal counts successful store writes by collection and operation.
	WritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_writes_total",
		Help: "Successful document writes by collection and operation.",
	}, []string{"collection", "op"})

	// WriteFailures counts failed store writes. Writes are fire-and-forget
	// with no retry, so this is the only trace a lost write leaves.
	WriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_write_failures_total",
		Help: "Failed document writes by collection and operation.",
	}, []string{"collection", "op"})

	// LiveSubscribers gauges currently connected snapshot streams.
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "board_live_subscribers",
		Help: "Currently connected snapshot stream subscribers.",
	})

	// SnapshotsPushed counts full-collection snapshot broadcasts.
	SnapshotsPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_snapshots_pushed_total",
		Help: "Full collection snapshots pushed to subscribers.",
	}, []string{"collection"})
)
