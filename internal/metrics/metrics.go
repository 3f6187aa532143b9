// Package metrics exposes wallet operation counters and latencies via
// Prometheus. It implements the wallet service's MetricsCollector so the
// engine stays free of any metrics library dependency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Total number of committed ledger transactions",
		},
		[]string{"type"},
	)

	transactionVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_transaction_volume",
			Help: "Total value moved, in currency units",
		},
		[]string{"type"},
	)

	operationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_operation_errors_total",
			Help: "Total number of failed wallet operations",
		},
		[]string{"operation", "kind"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_operation_duration_seconds",
			Help:    "Wallet operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Collector is the Prometheus-backed wallet.MetricsCollector.
type Collector struct{}

// NewCollector returns a Collector.
func NewCollector() *Collector { return &Collector{} }

func (*Collector) RecordTransaction(txType string, amount decimal.Decimal) {
	transactionsTotal.WithLabelValues(txType).Inc()
	volume, _ := amount.Float64()
	transactionVolume.WithLabelValues(txType).Add(volume)
}

func (*Collector) RecordError(operation, kind string) {
	operationErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func (*Collector) RecordOperationDuration(operation string, duration time.Duration) {
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
