// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsTotal counts processed payment attempts by terminal status.
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartwallet_payments_total",
		Help: "Payment attempts by terminal status (settled, blocked, insufficient_funds, failed).",
	}, []string{"status"})

	// ScoringDegraded counts scorings that fell back to the non-anomalous
	// default because encoding or reconstruction was unavailable.
	ScoringDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartwallet_scoring_degraded_total",
		Help: "Scoring passes that degraded to the fallback (error treated as zero).",
	})

	// RiskScores tracks the distribution of computed risk scores.
	RiskScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartwallet_risk_score",
		Help:    "Distribution of computed risk scores.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	// BatchRowsScored counts rows scored through the batch pipeline.
	BatchRowsScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartwallet_batch_rows_scored_total",
		Help: "Rows scored by the bulk analysis pipeline.",
	})
)
