package ml

import "gonum.org/v1/gonum/stat"

// DefaultThreshold is the conservative fallback used when no calibrated
// threshold artifact is available. The process still serves with it, in
// degraded confidence, rather than crashing.
const DefaultThreshold = 0.05

// CalibrateThreshold derives the anomaly threshold from the reconstruction
// errors of the normal-only training set:
//
//	threshold = mean(errors) + 3 * stddev(errors)
//
// Under an approximately normal error distribution this places the boundary
// past the worst ~0.1% of normal reconstructions. The multiplier is fixed;
// recalibration means rerunning this against a fresh corpus and model.
func CalibrateThreshold(errors []float64) float64 {
	if len(errors) == 0 {
		return DefaultThreshold
	}
	mean, std := stat.MeanStdDev(errors, nil)
	if len(errors) == 1 {
		return mean
	}
	return mean + 3*std
}
