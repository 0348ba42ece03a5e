package ml

import (
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/domain/risk"
	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/pkg/metrics"
)

// Scorer is the serving-time entry point of the anomaly pipeline:
// encode -> reconstruct -> error -> risk score -> fraud decision.
//
// Scoring is pure CPU over immutable state and never blocks on I/O, so it
// stays off the critical path's latency budget. It also never fails the
// caller: when artifacts are missing or reconstruction errors out, the
// result degrades to the non-anomalous fallback - availability of payments
// wins over strict gating when the model is unavailable.
type Scorer struct {
	store *Store
	log   *zap.Logger
}

// NewScorer creates a scorer reading artifacts from the given store.
func NewScorer(store *Store, log *zap.Logger) *Scorer {
	return &Scorer{store: store, log: log}
}

// Score computes the risk score and fraud decision for one transaction.
// Deterministic: the same transaction against the same loaded artifacts
// always produces the same score.
func (s *Scorer) Score(tx transaction.RawTransaction) risk.Result {
	bundle := s.store.Bundle()
	if bundle == nil || bundle.Encoder == nil || bundle.Model == nil {
		return s.degrade("model artifacts unavailable", nil)
	}

	vec := bundle.Encoder.Transform(NewSample(tx))
	reconstructed, err := bundle.Model.Reconstruct(vec)
	if err != nil {
		return s.degrade("reconstruction failed", err)
	}

	result := risk.Scored(MSE(vec, reconstructed), bundle.Threshold)
	metrics.RiskScores.Observe(float64(result.Score))
	return result
}

func (s *Scorer) degrade(reason string, err error) risk.Result {
	metrics.ScoringDegraded.Inc()
	s.log.Warn("scoring degraded, treating transaction as non-anomalous",
		zap.String("reason", reason), zap.Error(err))
	return risk.Degraded(reason)
}
