package risk

import "math"

// Score is a bounded integer proxy for fraud likelihood, derived
// deterministically from reconstruction error relative to the calibrated
// threshold. It is recomputed per transaction and never stored as ground
// truth.
type Score int

// The mapping constants below are kept exactly as tuned in production.
// They are deliberate, not derived: the jump from just-under-50 to 60 at
// the threshold crossing sharpens the separation between the normal and
// anomalous regions instead of smoothing through the boundary.
const (
	// MaxScore is the upper bound of the risk scale.
	MaxScore Score = 99

	// DecisionBoundary is the fixed accept/reject cut: scores strictly
	// above it block settlement.
	DecisionBoundary Score = 70

	// belowRate maps sub-threshold error ratios linearly into [0, 50).
	belowRate = 50.0

	// jumpBase and aboveRate map at-or-above-threshold ratios onto
	// [60, 99], saturating at MaxScore.
	jumpBase  = 60.0
	aboveRate = 20.0
)

// FromRatio maps an error/threshold ratio to a risk score.
//
//	ratio < 1:  min(99, floor(ratio * 50))
//	ratio >= 1: min(99, floor(60 + (ratio-1) * 20))
//
// Non-finite or negative ratios clamp to the nearest bound so the result is
// always within [0, 99].
func FromRatio(ratio float64) Score {
	if math.IsNaN(ratio) || ratio <= 0 {
		return 0
	}
	if math.IsInf(ratio, 1) {
		return MaxScore
	}

	var raw float64
	if ratio < 1 {
		raw = ratio * belowRate
	} else {
		raw = jumpBase + (ratio-1)*aboveRate
	}
	if raw > float64(MaxScore) {
		return MaxScore
	}
	return Score(math.Floor(raw))
}

// IsFraud reports whether the score crosses the decision boundary.
func (s Score) IsFraud() bool {
	return s > DecisionBoundary
}

// Int returns the score as a plain int for serialization.
func (s Score) Int() int {
	return int(s)
}
