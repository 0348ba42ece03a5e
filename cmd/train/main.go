package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/infrastructure/ml"
	"smartwallet-fraud-shield/internal/pkg/logging"
)

func main() {
	dataPath := flag.String("data", "transactions.csv", "Path to the labeled transaction CSV")
	outDir := flag.String("out", "./artifacts", "Directory to write fitted artifacts into")
	epochs := flag.Int("epochs", 50, "Training epochs")
	learningRate := flag.Float64("lr", 0.01, "SGD learning rate")
	validationSplit := flag.Float64("val", 0.2, "Validation split for early stopping")
	patience := flag.Int("patience", 5, "Early-stopping patience in epochs (0 disables)")
	seed := flag.Int64("seed", 42, "Random seed for weight init and data shuffling")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger, err := logging.New(*logLevel, "console")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	corpus, err := ml.LoadCorpus(*dataPath)
	if err != nil {
		logger.Fatal("failed to load corpus", zap.String("path", *dataPath), zap.Error(err))
	}
	logger.Info("corpus loaded", zap.String("path", *dataPath), zap.Int("rows", len(corpus)))

	cfg := ml.TrainConfig{
		Epochs:          *epochs,
		LearningRate:    *learningRate,
		ValidationSplit: *validationSplit,
		Patience:        *patience,
		Seed:            *seed,
	}

	bundle, err := ml.Train(corpus, cfg, logger)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	if err := ml.SaveBundle(*outDir, bundle); err != nil {
		logger.Fatal("failed to save artifacts", zap.String("dir", *outDir), zap.Error(err))
	}

	logger.Info("artifacts written",
		zap.String("dir", *outDir),
		zap.Int("vector_dim", bundle.Encoder.Dim()),
		zap.Float64("threshold", bundle.Threshold))
}
