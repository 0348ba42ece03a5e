package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedEncoder(t *testing.T) *Encoder {
	t.Helper()
	e := &Encoder{}
	e.Fit([]Sample{
		{Merchant: "Swiggy", Category: "Food", Amount: 50, Hour: 0, DayOfWeek: 0},
		{Merchant: "Uber", Category: "Travel", Amount: 2000, Hour: 23, DayOfWeek: 6},
		{Merchant: "Amazon", Category: "Shopping", Amount: 500, Hour: 12, DayOfWeek: 3},
	})
	return e
}

func TestEncoderDim(t *testing.T) {
	e := fittedEncoder(t)
	// 3 numeric + 3 categories + 3 merchants
	assert.Equal(t, 9, e.Dim())
}

func TestEncoderTransformFixedLength(t *testing.T) {
	e := fittedEncoder(t)

	inputs := []Sample{
		{Merchant: "Swiggy", Category: "Food", Amount: 100, Hour: 10, DayOfWeek: 1},
		{Merchant: "never-seen", Category: "also-unknown", Amount: 1e9, Hour: 3, DayOfWeek: 5},
		{},
	}
	for _, s := range inputs {
		vec := e.Transform(s)
		require.Len(t, vec, e.Dim())
	}
}

func TestEncoderScalesAndClamps(t *testing.T) {
	e := fittedEncoder(t)

	// Mid-range amount scales linearly: (500-50)/(2000-50).
	vec := e.Transform(Sample{Merchant: "Amazon", Category: "Shopping", Amount: 500, Hour: 12, DayOfWeek: 3})
	assert.InDelta(t, 450.0/1950.0, vec[0], 1e-12)

	// Amounts beyond the training max clamp to 1.0, never extrapolate.
	vec = e.Transform(Sample{Merchant: "Amazon", Category: "Shopping", Amount: 50000, Hour: 12, DayOfWeek: 3})
	assert.Equal(t, 1.0, vec[0])

	// Below the training min clamps to 0.
	vec = e.Transform(Sample{Merchant: "Amazon", Category: "Shopping", Amount: 1, Hour: 12, DayOfWeek: 3})
	assert.Equal(t, 0.0, vec[0])

	// Every component stays inside [0,1].
	for i, v := range vec {
		assert.GreaterOrEqual(t, v, 0.0, "component %d", i)
		assert.LessOrEqual(t, v, 1.0, "component %d", i)
	}
}

func TestEncoderUnknownCategoricalIsAllZero(t *testing.T) {
	e := fittedEncoder(t)

	vec := e.Transform(Sample{Merchant: "Shady Global Store", Category: "Transfer", Amount: 500, Hour: 12, DayOfWeek: 3})
	for i := numericFeatures; i < len(vec); i++ {
		assert.Equal(t, 0.0, vec[i], "indicator %d should be zero for unknown values", i)
	}
}

func TestEncoderKnownCategoricalOneHot(t *testing.T) {
	e := fittedEncoder(t)

	vec := e.Transform(Sample{Merchant: "Uber", Category: "Travel", Amount: 500, Hour: 12, DayOfWeek: 3})

	catOnes, merchOnes := 0, 0
	for i := 0; i < len(e.Categories); i++ {
		if vec[numericFeatures+i] == 1 {
			catOnes++
		}
	}
	for i := 0; i < len(e.Merchants); i++ {
		if vec[numericFeatures+len(e.Categories)+i] == 1 {
			merchOnes++
		}
	}
	assert.Equal(t, 1, catOnes)
	assert.Equal(t, 1, merchOnes)
}

func TestEncoderDeterministic(t *testing.T) {
	e := fittedEncoder(t)
	s := Sample{Merchant: "Swiggy", Category: "Food", Amount: 123.45, Hour: 9, DayOfWeek: 2}
	assert.Equal(t, e.Transform(s), e.Transform(s))
}

func TestEncoderDegenerateBounds(t *testing.T) {
	e := &Encoder{}
	e.Fit([]Sample{{Merchant: "Jio", Category: "Utility", Amount: 100, Hour: 10, DayOfWeek: 1}})

	// min == max scales to zero instead of dividing by zero.
	vec := e.Transform(Sample{Merchant: "Jio", Category: "Utility", Amount: 100, Hour: 10, DayOfWeek: 1})
	assert.Equal(t, 0.0, vec[0])
	assert.Equal(t, 0.0, vec[1])
	assert.Equal(t, 0.0, vec[2])
}
