package ml

import (
	"sort"
	"sync"
)

// numericFeatures is the count of scaled numeric components at the head of
// every encoded vector: amount, hour, day-of-week.
const numericFeatures = 3

// Bounds holds the min/max observed for a numeric feature at fit time.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// scale rescales x into [0,1] against the fitted bounds. Serve-time values
// outside the training range clamp rather than extrapolate: an amount far
// beyond anything seen in training is itself the fraud signal, and must not
// corrupt the rest of the vector.
func (b Bounds) scale(x float64) float64 {
	if b.Max <= b.Min {
		return 0
	}
	s := (x - b.Min) / (b.Max - b.Min)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Encoder is the fitted feature transform: min/max scaling for the numeric
// features and one-hot indicators against vocabularies frozen at fit time.
// Transform is a total function - unknown categorical values encode to the
// all-zero indicator row, which is itself an informative signal downstream.
//
// After fitting (or loading), the encoder is immutable and safe for
// concurrent use.
type Encoder struct {
	Amount Bounds `json:"amount"`
	Hour   Bounds `json:"hour"`
	Day    Bounds `json:"day"`

	Categories []string `json:"categories"`
	Merchants  []string `json:"merchants"`

	indexOnce     sync.Once
	categoryIndex map[string]int
	merchantIndex map[string]int
}

// Fit captures numeric bounds and categorical vocabularies from the
// training corpus. It runs once, offline; serve-time calls only apply the
// fitted transform.
func (e *Encoder) Fit(samples []Sample) {
	e.Amount = fitBounds(samples, func(s Sample) float64 { return s.Amount })
	e.Hour = fitBounds(samples, func(s Sample) float64 { return float64(s.Hour) })
	e.Day = fitBounds(samples, func(s Sample) float64 { return float64(s.DayOfWeek) })

	e.Categories = vocabulary(samples, func(s Sample) string { return s.Category })
	e.Merchants = vocabulary(samples, func(s Sample) string { return s.Merchant })
}

// Dim returns the fixed output dimensionality of the fitted transform.
func (e *Encoder) Dim() int {
	return numericFeatures + len(e.Categories) + len(e.Merchants)
}

// Transform encodes a sample into the fixed-length vector
// [scaled numerics] ++ [one-hot category] ++ [one-hot merchant].
// It never fails: malformed categorical input falls back to the unknown
// (all-zero) encoding.
func (e *Encoder) Transform(s Sample) []float64 {
	e.indexOnce.Do(e.buildIndexes)

	vec := make([]float64, e.Dim())
	vec[0] = e.Amount.scale(s.Amount)
	vec[1] = e.Hour.scale(float64(s.Hour))
	vec[2] = e.Day.scale(float64(s.DayOfWeek))

	if i, ok := e.categoryIndex[s.Category]; ok {
		vec[numericFeatures+i] = 1
	}
	if i, ok := e.merchantIndex[s.Merchant]; ok {
		vec[numericFeatures+len(e.Categories)+i] = 1
	}
	return vec
}

func (e *Encoder) buildIndexes() {
	e.categoryIndex = make(map[string]int, len(e.Categories))
	for i, c := range e.Categories {
		e.categoryIndex[c] = i
	}
	e.merchantIndex = make(map[string]int, len(e.Merchants))
	for i, m := range e.Merchants {
		e.merchantIndex[m] = i
	}
}

func fitBounds(samples []Sample, feature func(Sample) float64) Bounds {
	if len(samples) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: feature(samples[0]), Max: feature(samples[0])}
	for _, s := range samples[1:] {
		v := feature(s)
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b
}

func vocabulary(samples []Sample, feature func(Sample) string) []string {
	seen := make(map[string]struct{})
	for _, s := range samples {
		if v := feature(s); v != "" {
			seen[v] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(seen))
	for v := range seen {
		vocab = append(vocab, v)
	}
	sort.Strings(vocab)
	return vocab
}
