package risk

// Result is the outcome of scoring one transaction. It distinguishes a real
// scoring pass from a degraded fallback so the fallback path stays visible
// to tests and observability instead of being silently swallowed.
type Result struct {
	Score Score `json:"risk_score"`
	Fraud bool  `json:"is_fraud"`

	// ReconstructionError is the MSE between the encoded vector and its
	// reconstruction. Zero when degraded.
	ReconstructionError float64 `json:"reconstruction_error"`

	// Ratio is ReconstructionError divided by the calibrated threshold.
	Ratio float64 `json:"ratio"`

	// Degraded marks that scoring could not run and the conservative
	// fallback (treat as non-anomalous) was applied. A degraded scoring
	// must never block a payment by itself.
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Scored builds the result for a completed scoring pass.
func Scored(reconstructionError, threshold float64) Result {
	ratio := 0.0
	if threshold > 0 {
		ratio = reconstructionError / threshold
	}
	score := FromRatio(ratio)
	return Result{
		Score:               score,
		Fraud:               score.IsFraud(),
		ReconstructionError: reconstructionError,
		Ratio:               ratio,
	}
}

// Degraded builds the fallback result: error treated as zero, payment
// allowed to proceed on the settlement path.
func Degraded(reason string) Result {
	return Result{
		Score:    0,
		Fraud:    false,
		Degraded: true,
		Reason:   reason,
	}
}
