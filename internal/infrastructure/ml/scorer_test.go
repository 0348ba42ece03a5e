package ml

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/domain/risk"
	"smartwallet-fraud-shield/internal/domain/transaction"
)

func publishBundle(t *testing.T, b *Bundle) *Store {
	t.Helper()
	store := NewStore(t.TempDir(), zap.NewNop())
	store.bundle.Store(b)
	return store
}

func testTx(amount float64) transaction.RawTransaction {
	return transaction.RawTransaction{
		Username:  "asha",
		Merchant:  "Swiggy",
		Category:  "Food",
		Amount:    decimal.NewFromFloat(amount),
		Timestamp: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

// pipelineMSE recomputes the reconstruction error the scorer should see.
func pipelineMSE(t *testing.T, b *Bundle, tx transaction.RawTransaction) float64 {
	t.Helper()
	vec := b.Encoder.Transform(NewSample(tx))
	out, err := b.Model.Reconstruct(vec)
	require.NoError(t, err)
	return MSE(vec, out)
}

func TestScoreDegradedWithoutArtifacts(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	scorer := NewScorer(store, zap.NewNop())

	result := scorer.Score(testTx(500))
	assert.True(t, result.Degraded)
	assert.False(t, result.Fraud)
	assert.Equal(t, risk.Score(0), result.Score)
}

func TestScoreBelowThreshold(t *testing.T) {
	enc := fittedEncoder(t)
	model := NewAutoencoder(enc.Dim(), 1)
	zeroModel(model)

	bundle := &Bundle{Encoder: enc, Model: model}
	tx := testTx(500)
	mse := pipelineMSE(t, bundle, tx)
	require.Greater(t, mse, 0.0)

	// Threshold at double the error: ratio 0.5 maps to risk 25.
	bundle.Threshold = mse * 2
	scorer := NewScorer(publishBundle(t, bundle), zap.NewNop())

	result := scorer.Score(tx)
	assert.False(t, result.Degraded)
	assert.Equal(t, risk.Score(25), result.Score)
	assert.False(t, result.Fraud)
	assert.InDelta(t, 0.5, result.Ratio, 1e-9)
}

func TestScoreAboveThresholdFlagsFraud(t *testing.T) {
	enc := fittedEncoder(t)
	model := NewAutoencoder(enc.Dim(), 1)
	zeroModel(model)

	bundle := &Bundle{Encoder: enc, Model: model}
	tx := testTx(40000)
	mse := pipelineMSE(t, bundle, tx)

	// Threshold at a quarter of the error: ratio 4.0 saturates to 99.
	bundle.Threshold = mse / 4
	scorer := NewScorer(publishBundle(t, bundle), zap.NewNop())

	result := scorer.Score(tx)
	assert.Equal(t, risk.Score(99), result.Score)
	assert.True(t, result.Fraud)
}

func TestScoreDeterministic(t *testing.T) {
	enc := fittedEncoder(t)
	bundle := &Bundle{Encoder: enc, Model: NewAutoencoder(enc.Dim(), 42), Threshold: 0.02}
	scorer := NewScorer(publishBundle(t, bundle), zap.NewNop())

	tx := testTx(1234.56)
	assert.Equal(t, scorer.Score(tx), scorer.Score(tx))
}

func TestScoreUnseenMerchantProceeds(t *testing.T) {
	enc := fittedEncoder(t)
	bundle := &Bundle{Encoder: enc, Model: NewAutoencoder(enc.Dim(), 42), Threshold: 0.02}
	scorer := NewScorer(publishBundle(t, bundle), zap.NewNop())

	tx := testTx(500)
	tx.Merchant = "Unknown Global Store"

	result := scorer.Score(tx)
	assert.False(t, result.Degraded, "unseen merchant must score, not fault")
	assert.GreaterOrEqual(t, result.Score, risk.Score(0))
	assert.LessOrEqual(t, result.Score, risk.MaxScore)
}

func TestScoreDimensionMismatchDegrades(t *testing.T) {
	enc := fittedEncoder(t)
	// Model built for a different vector width than the encoder emits.
	bundle := &Bundle{Encoder: enc, Model: NewAutoencoder(enc.Dim()+2, 42), Threshold: 0.02}
	scorer := NewScorer(publishBundle(t, bundle), zap.NewNop())

	result := scorer.Score(testTx(500))
	assert.True(t, result.Degraded)
	assert.False(t, result.Fraud)
}
