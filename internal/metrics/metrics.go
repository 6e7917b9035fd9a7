package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_payments_total",
		Help: "Job payment attempts, labeled by outcome",
	}, []string{"outcome"})

	DepositsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_deposits_total",
		Help: "Balance deposit attempts, labeled by outcome",
	}, []string{"outcome"})

	TransferConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_transfer_conflicts_total",
		Help: "Optimistic lock collisions on profile balances",
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketplace_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})
)
