package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestCalibrateThreshold(t *testing.T) {
	errs := []float64{0.01, 0.012, 0.009, 0.011, 0.013, 0.008}

	mean, std := stat.MeanStdDev(errs, nil)
	assert.InDelta(t, mean+3*std, CalibrateThreshold(errs), 1e-12)
}

func TestCalibrateThresholdEmpty(t *testing.T) {
	assert.Equal(t, DefaultThreshold, CalibrateThreshold(nil))
}

func TestCalibrateThresholdSingleValue(t *testing.T) {
	// One observation has no spread; the threshold is the value itself.
	assert.InDelta(t, 0.02, CalibrateThreshold([]float64{0.02}), 1e-12)
}

func TestCalibrateThresholdIsAboveMean(t *testing.T) {
	errs := []float64{0.5, 0.1, 0.3, 0.2, 0.4}
	mean, _ := stat.MeanStdDev(errs, nil)
	assert.Greater(t, CalibrateThreshold(errs), mean)
}
