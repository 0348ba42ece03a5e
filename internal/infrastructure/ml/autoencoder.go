package ml

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when an input vector does not match
	// the dimensionality the model was built for.
	ErrDimensionMismatch = errors.New("vector dimension does not match model input")

	// ErrModelEmpty is returned when reconstructing with an untrained model.
	ErrModelEmpty = errors.New("autoencoder has no layers")

	// ErrMalformedModel is returned when layer shapes are inconsistent,
	// typically after loading a corrupted or truncated artifact.
	ErrMalformedModel = errors.New("autoencoder layer shapes are inconsistent")
)

// hiddenDims is the bottleneck architecture: the input is compressed down
// to 8 dimensions and expanded back out. Trained only on normal
// transactions, the model reconstructs normal patterns well and anomalous
// ones poorly - that asymmetry is the entire detection signal.
var hiddenDims = []int{32, 16, 8, 16, 32}

const (
	activationReLU    = "relu"
	activationSigmoid = "sigmoid"
)

// Layer holds one dense layer's parameters in serializable form.
// Weights are row-major [out][in].
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// Autoencoder is a feedforward reconstruction model. Inputs are normalized
// to [0,1] by the encoder; the sigmoid output layer keeps reconstructions
// in the same range. Once trained (or loaded), the model is immutable and
// safe for concurrent reconstruction.
type Autoencoder struct {
	InputDim int     `json:"input_dim"`
	Layers   []Layer `json:"layers"`

	compileOnce sync.Once
	weights     []*mat.Dense
	biases      []*mat.VecDense
}

// NewAutoencoder builds an untrained model with randomly initialized
// weights for the given input dimensionality. The seed fixes
// initialization so training runs are reproducible.
func NewAutoencoder(inputDim int, seed int64) *Autoencoder {
	rng := rand.New(rand.NewSource(seed))

	dims := append([]int{inputDim}, hiddenDims...)
	dims = append(dims, inputDim)

	layers := make([]Layer, len(dims)-1)
	for l := 0; l < len(layers); l++ {
		in, out := dims[l], dims[l+1]
		limit := math.Sqrt(6.0 / float64(in+out))

		w := make([][]float64, out)
		for i := range w {
			w[i] = make([]float64, in)
			for j := range w[i] {
				w[i][j] = (rng.Float64()*2 - 1) * limit
			}
		}

		activation := activationReLU
		if l == len(layers)-1 {
			activation = activationSigmoid
		}
		layers[l] = Layer{Weights: w, Biases: make([]float64, out), Activation: activation}
	}

	return &Autoencoder{InputDim: inputDim, Layers: layers}
}

// Reconstruct runs the forward pass. Output dimensionality always equals
// input dimensionality; the call is deterministic given fixed parameters.
func (a *Autoencoder) Reconstruct(vec []float64) ([]float64, error) {
	if len(a.Layers) == 0 {
		return nil, ErrModelEmpty
	}
	if len(vec) != a.InputDim {
		return nil, ErrDimensionMismatch
	}

	a.compileOnce.Do(a.compile)

	cur := mat.NewVecDense(len(vec), append([]float64(nil), vec...))
	for l := range a.weights {
		rows, _ := a.weights[l].Dims()
		next := mat.NewVecDense(rows, nil)
		next.MulVec(a.weights[l], cur)
		next.AddVec(next, a.biases[l])
		applyActivation(next.RawVector().Data, a.Layers[l].Activation)
		cur = next
	}
	return cur.RawVector().Data, nil
}

// Validate checks the layer shapes: every layer must have weight rows of a
// consistent width, biases matching its row count, and the layers must chain
// from InputDim back to InputDim. Deserialized models are validated before
// publication so a truncated artifact can never panic the forward pass.
func (a *Autoencoder) Validate() error {
	if a.InputDim <= 0 || len(a.Layers) == 0 {
		return ErrModelEmpty
	}

	in := a.InputDim
	for _, layer := range a.Layers {
		out := len(layer.Weights)
		if out == 0 || len(layer.Biases) != out {
			return ErrMalformedModel
		}
		for _, row := range layer.Weights {
			if len(row) != in {
				return ErrMalformedModel
			}
		}
		in = out
	}
	if in != a.InputDim {
		return ErrMalformedModel
	}
	return nil
}

// compile lifts the serializable layer parameters into gonum matrices for
// the forward pass.
func (a *Autoencoder) compile() {
	a.weights = make([]*mat.Dense, len(a.Layers))
	a.biases = make([]*mat.VecDense, len(a.Layers))
	for l, layer := range a.Layers {
		rows := len(layer.Weights)
		cols := len(layer.Weights[0])
		flat := make([]float64, 0, rows*cols)
		for _, row := range layer.Weights {
			flat = append(flat, row...)
		}
		a.weights[l] = mat.NewDense(rows, cols, flat)
		a.biases[l] = mat.NewVecDense(rows, append([]float64(nil), layer.Biases...))
	}
}

// MSE returns the mean squared difference across all dimensions of two
// vectors of equal length.
func MSE(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(len(a))
}

func applyActivation(xs []float64, activation string) {
	switch activation {
	case activationSigmoid:
		for i, x := range xs {
			xs[i] = sigmoid(x)
		}
	default: // relu
		for i, x := range xs {
			if x < 0 {
				xs[i] = 0
			}
		}
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
