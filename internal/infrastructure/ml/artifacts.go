package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	encoderFile   = "encoder.json"
	modelFile     = "autoencoder.json"
	thresholdFile = "threshold.json"
)

// Bundle is one immutable set of fitted artifacts: the encoder, the
// reconstruction model, and the calibrated threshold. A bundle is loaded
// whole and never mutated, so concurrent scorings need no synchronization.
type Bundle struct {
	Encoder   *Encoder
	Model     *Autoencoder
	Threshold float64
}

type thresholdArtifact struct {
	Threshold float64 `json:"threshold"`
}

// Store owns the currently published artifact bundle. Reloads swap the
// whole bundle through an atomic pointer: in-flight scorings keep the
// bundle they started with and never observe a half-loaded state.
type Store struct {
	dir string
	log *zap.Logger

	bundle atomic.Pointer[Bundle]
}

// NewStore creates a store reading artifacts from dir. Nothing is loaded
// until Load is called.
func NewStore(dir string, log *zap.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Bundle returns the currently published artifacts, or nil when none have
// been loaded. A nil bundle means the scorer serves in degraded mode.
func (s *Store) Bundle() *Bundle {
	return s.bundle.Load()
}

// Loaded reports whether a bundle has been published.
func (s *Store) Loaded() bool {
	return s.bundle.Load() != nil
}

// Load reads and publishes the artifact bundle. The swap happens only after
// every file has parsed; a partial read leaves the previous bundle (or the
// degraded nil state) in place.
func (s *Store) Load() error {
	var enc Encoder
	if err := readJSON(filepath.Join(s.dir, encoderFile), &enc); err != nil {
		return fmt.Errorf("failed to load encoder: %w", err)
	}

	var model Autoencoder
	if err := readJSON(filepath.Join(s.dir, modelFile), &model); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	if err := model.Validate(); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	if model.InputDim != enc.Dim() {
		return fmt.Errorf("failed to load model: %w: model expects %d inputs, encoder emits %d",
			ErrMalformedModel, model.InputDim, enc.Dim())
	}

	threshold := DefaultThreshold
	var t thresholdArtifact
	if err := readJSON(filepath.Join(s.dir, thresholdFile), &t); err != nil {
		s.log.Warn("threshold artifact missing, using default",
			zap.Float64("default", DefaultThreshold), zap.Error(err))
	} else if t.Threshold > 0 {
		threshold = t.Threshold
	}

	bundle := &Bundle{Encoder: &enc, Model: &model, Threshold: threshold}
	s.bundle.Store(bundle)

	s.log.Info("model artifacts loaded",
		zap.Int("vector_dim", enc.Dim()),
		zap.Float64("threshold", threshold))
	return nil
}

// Reload re-reads the artifacts and atomically republishes them. Used after
// an offline recalibration run replaces the files.
func (s *Store) Reload() error {
	return s.Load()
}

// SaveBundle persists the bundle into dir. Each artifact is written to a
// temp file and renamed into place so a concurrent reader never sees a
// half-written artifact.
func SaveBundle(dir string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(dir, encoderFile), b.Encoder); err != nil {
		return err
	}
	if err := writeJSONAtomic(filepath.Join(dir, modelFile), b.Model); err != nil {
		return err
	}
	return writeJSONAtomic(filepath.Join(dir, thresholdFile), thresholdArtifact{Threshold: b.Threshold})
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
