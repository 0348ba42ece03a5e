package ml

import (
	"errors"
	"math/rand"
	"sync"
)

// ErrNoTrainingData is returned when Fit is called with an empty corpus.
var ErrNoTrainingData = errors.New("no training vectors provided")

// TrainConfig controls the offline SGD loop. The serving contract does not
// depend on any of this; it only requires the resulting parameters to be
// fixed and deterministic.
type TrainConfig struct {
	Epochs          int
	LearningRate    float64
	ValidationSplit float64
	Patience        int
	Seed            int64
}

// DefaultTrainConfig mirrors the calibration runs the model shipped with.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:          50,
		LearningRate:    0.01,
		ValidationSplit: 0.2,
		Patience:        5,
		Seed:            42,
	}
}

// Fit trains the autoencoder to reconstruct its inputs with per-sample SGD
// on MSE. The corpus must already be filtered to normal-only vectors:
// training on a mixed or fraud-heavy corpus invalidates the downstream
// threshold entirely.
func (a *Autoencoder) Fit(vectors [][]float64, cfg TrainConfig) error {
	if len(vectors) == 0 {
		return ErrNoTrainingData
	}
	for _, v := range vectors {
		if len(v) != a.InputDim {
			return ErrDimensionMismatch
		}
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = DefaultTrainConfig().Epochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultTrainConfig().LearningRate
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Hold out a validation slice for early stopping when the corpus is
	// big enough for one.
	idx := rng.Perm(len(vectors))
	nVal := int(cfg.ValidationSplit * float64(len(vectors)))
	var train, val [][]float64
	for i, j := range idx {
		if i < nVal {
			val = append(val, vectors[j])
		} else {
			train = append(train, vectors[j])
		}
	}
	if len(train) == 0 {
		train, val = val, nil
	}

	bestLoss := a.loss(firstNonEmpty(val, train))
	best := cloneLayers(a.Layers)
	badEpochs := 0

	order := make([]int, len(train))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, i := range order {
			a.sgdStep(train[i], cfg.LearningRate)
		}

		epochLoss := a.loss(firstNonEmpty(val, train))
		if epochLoss < bestLoss {
			bestLoss = epochLoss
			best = cloneLayers(a.Layers)
			badEpochs = 0
			continue
		}
		badEpochs++
		if cfg.Patience > 0 && badEpochs >= cfg.Patience {
			break
		}
	}

	a.Layers = best
	a.compileOnce = sync.Once{}
	return nil
}

// loss is the mean reconstruction MSE over a vector set.
func (a *Autoencoder) loss(vectors [][]float64) float64 {
	if len(vectors) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range vectors {
		out, _ := a.forward(v)
		total += MSE(v, out[len(out)-1])
	}
	return total / float64(len(vectors))
}

// forward runs the network on plain slices, returning all layer activations
// and pre-activations for backprop. The first activation is the input.
func (a *Autoencoder) forward(x []float64) (acts [][]float64, preacts [][]float64) {
	acts = make([][]float64, len(a.Layers)+1)
	preacts = make([][]float64, len(a.Layers))
	acts[0] = x

	for l, layer := range a.Layers {
		z := make([]float64, len(layer.Weights))
		for i, row := range layer.Weights {
			sum := layer.Biases[i]
			for j, w := range row {
				sum += w * acts[l][j]
			}
			z[i] = sum
		}
		preacts[l] = z

		out := append([]float64(nil), z...)
		applyActivation(out, layer.Activation)
		acts[l+1] = out
	}
	return acts, preacts
}

// sgdStep runs one forward/backward pass against a single sample, with the
// sample as its own reconstruction target.
func (a *Autoencoder) sgdStep(x []float64, lr float64) {
	acts, preacts := a.forward(x)
	last := len(a.Layers) - 1

	// Output deltas: dLoss/dz with the target being the input itself.
	deltas := make([][]float64, len(a.Layers))
	out := acts[last+1]
	deltas[last] = make([]float64, len(out))
	for i := range out {
		deltas[last][i] = (out[i] - x[i]) * activationPrime(a.Layers[last].Activation, preacts[last][i], out[i])
	}

	// Backpropagate through the hidden layers using pre-update weights.
	for l := last - 1; l >= 0; l-- {
		next := a.Layers[l+1]
		deltas[l] = make([]float64, len(a.Layers[l].Weights))
		for j := range deltas[l] {
			sum := 0.0
			for i, row := range next.Weights {
				sum += row[j] * deltas[l+1][i]
			}
			deltas[l][j] = sum * activationPrime(a.Layers[l].Activation, preacts[l][j], acts[l+1][j])
		}
	}

	for l, layer := range a.Layers {
		for i, row := range layer.Weights {
			d := lr * deltas[l][i]
			for j := range row {
				row[j] -= d * acts[l][j]
			}
			layer.Biases[i] -= d
		}
	}
}

func activationPrime(activation string, z, out float64) float64 {
	if activation == activationSigmoid {
		return out * (1 - out)
	}
	if z > 0 {
		return 1
	}
	return 0
}

func cloneLayers(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for l, layer := range layers {
		w := make([][]float64, len(layer.Weights))
		for i, row := range layer.Weights {
			w[i] = append([]float64(nil), row...)
		}
		out[l] = Layer{
			Weights:    w,
			Biases:     append([]float64(nil), layer.Biases...),
			Activation: layer.Activation,
		}
	}
	return out
}

func firstNonEmpty(a, b [][]float64) [][]float64 {
	if len(a) > 0 {
		return a
	}
	return b
}
