package ml

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoNormalData is returned when a training corpus has no normal-labeled
// rows. Without them there is no distribution to calibrate against.
var ErrNoNormalData = errors.New("training corpus contains no normal transactions")

// Train runs the full offline pipeline: filter the corpus to normal-only
// rows, fit the encoder, train the autoencoder, and calibrate the threshold
// from the reconstruction errors of the same normal-only vectors.
//
// The normal-only filter is the statistical basis of the whole approach:
// the model must never learn to compress fraud patterns, and the threshold
// must characterize the error distribution of normal data alone.
func Train(corpus []LabeledSample, cfg TrainConfig, log *zap.Logger) (*Bundle, error) {
	normal := make([]Sample, 0, len(corpus))
	for _, row := range corpus {
		if !row.Fraud {
			normal = append(normal, row.Sample)
		}
	}
	if len(normal) == 0 {
		return nil, ErrNoNormalData
	}

	log.Info("fitting encoder",
		zap.Int("corpus_rows", len(corpus)),
		zap.Int("normal_rows", len(normal)))

	encoder := &Encoder{}
	encoder.Fit(normal)

	vectors := make([][]float64, len(normal))
	for i, s := range normal {
		vectors[i] = encoder.Transform(s)
	}

	log.Info("training autoencoder",
		zap.Int("vector_dim", encoder.Dim()),
		zap.Int("epochs", cfg.Epochs))

	model := NewAutoencoder(encoder.Dim(), cfg.Seed)
	if err := model.Fit(vectors, cfg); err != nil {
		return nil, fmt.Errorf("autoencoder training failed: %w", err)
	}

	errs := make([]float64, len(vectors))
	for i, v := range vectors {
		out, err := model.Reconstruct(v)
		if err != nil {
			return nil, fmt.Errorf("reconstruction during calibration failed: %w", err)
		}
		errs[i] = MSE(v, out)
	}
	threshold := CalibrateThreshold(errs)

	log.Info("threshold calibrated", zap.Float64("threshold", threshold))

	return &Bundle{Encoder: encoder, Model: model, Threshold: threshold}, nil
}
