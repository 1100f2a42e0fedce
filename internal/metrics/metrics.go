// Package metrics provides Prometheus metrics for the price digest.
// Scrape these at /metrics when running in serve mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	RunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_runs_total",
			Help: "Total number of tracker runs",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_run_duration_seconds",
			Help:    "Time taken for one full tracker run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		},
	)

	// Price fetch metrics
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_price_fetches_total",
			Help: "Price fetch outcomes",
		},
		[]string{"result"}, // "ok", "absent", "error"
	)

	ItemsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_items_tracked",
			Help: "Number of unique products in the catalog",
		},
	)

	// Report metrics
	OwnerValueUSD = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "digest_owner_value_usd",
			Help: "Total tracked value per owner in USD",
		},
		[]string{"owner"},
	)

	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_webhook_deliveries_total",
			Help: "Webhook delivery outcomes",
		},
		[]string{"status"}, // "ok", "failed", "skipped"
	)
)
