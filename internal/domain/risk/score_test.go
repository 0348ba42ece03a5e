package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  Score
	}{
		{"zero error", 0, 0},
		{"half of threshold", 0.5, 25},
		{"just under threshold", 0.99, 49},
		{"at threshold jumps to 60", 1.0, 60},
		{"double threshold", 2.0, 80},
		{"four times threshold saturates", 4.0, 99},
		{"far beyond threshold stays capped", 100, 99},
		{"negative clamps to zero", -0.3, 0},
		{"NaN clamps to zero", math.NaN(), 0},
		{"positive infinity caps", math.Inf(1), 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromRatio(tt.ratio))
		})
	}
}

func TestFromRatioBounds(t *testing.T) {
	for ratio := 0.0; ratio < 12; ratio += 0.01 {
		s := FromRatio(ratio)
		require.GreaterOrEqual(t, s, Score(0), "ratio %f", ratio)
		require.LessOrEqual(t, s, MaxScore, "ratio %f", ratio)
	}
}

func TestFromRatioMonotoneWithJump(t *testing.T) {
	// Non-decreasing on each side of ratio=1, with a single upward jump
	// from just under 50 to at least 60 at the crossing.
	prev := FromRatio(0)
	for ratio := 0.01; ratio < 1; ratio += 0.01 {
		s := FromRatio(ratio)
		require.GreaterOrEqual(t, s, prev)
		require.Less(t, s, Score(50))
		prev = s
	}

	prev = FromRatio(1)
	require.GreaterOrEqual(t, prev, Score(60))
	for ratio := 1.01; ratio < 6; ratio += 0.01 {
		s := FromRatio(ratio)
		require.GreaterOrEqual(t, s, prev)
		prev = s
	}
}

func TestIsFraudBoundary(t *testing.T) {
	assert.False(t, Score(70).IsFraud())
	assert.True(t, Score(71).IsFraud())
	assert.True(t, MaxScore.IsFraud())
	assert.False(t, Score(0).IsFraud())
}

func TestScored(t *testing.T) {
	// threshold=0.02, error=0.01 -> ratio=0.5 -> risk=25, not fraud
	r := Scored(0.01, 0.02)
	assert.Equal(t, Score(25), r.Score)
	assert.False(t, r.Fraud)
	assert.False(t, r.Degraded)
	assert.InDelta(t, 0.5, r.Ratio, 1e-12)

	// threshold=0.02, error=0.08 -> ratio=4.0 -> risk=99, fraud
	r = Scored(0.08, 0.02)
	assert.Equal(t, Score(99), r.Score)
	assert.True(t, r.Fraud)

	// Zero threshold never divides: treated as non-anomalous.
	r = Scored(0.5, 0)
	assert.Equal(t, Score(0), r.Score)
	assert.False(t, r.Fraud)
}

func TestDegraded(t *testing.T) {
	r := Degraded("model artifacts unavailable")
	assert.True(t, r.Degraded)
	assert.False(t, r.Fraud)
	assert.Equal(t, Score(0), r.Score)
	assert.Equal(t, "model artifacts unavailable", r.Reason)
}
