package ml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func trainingCorpus() []LabeledSample {
	var corpus []LabeledSample
	merchants := []string{"Swiggy", "Zomato", "Uber", "Amazon"}
	categories := []string{"Food", "Food", "Travel", "Shopping"}
	for i := 0; i < 40; i++ {
		m := i % len(merchants)
		corpus = append(corpus, LabeledSample{
			Sample: Sample{
				Merchant:  merchants[m],
				Category:  categories[m],
				Amount:    float64(100 + 40*i),
				Hour:      7 + i%16,
				DayOfWeek: i % 7,
			},
		})
	}
	// A few fraud-flagged rows that must be excluded from fitting.
	corpus = append(corpus,
		LabeledSample{Sample: Sample{Merchant: "Shady Pvt Ltd", Category: "Transfer", Amount: 45000, Hour: 3, DayOfWeek: 2}, Fraud: true},
		LabeledSample{Sample: Sample{Merchant: "Crypto Exchange", Category: "Unknown", Amount: 12000, Hour: 2, DayOfWeek: 4}, Fraud: true},
	)
	return corpus
}

func TestTrainProducesBundle(t *testing.T) {
	cfg := TrainConfig{Epochs: 10, LearningRate: 0.05, ValidationSplit: 0.2, Patience: 3, Seed: 42}
	bundle, err := Train(trainingCorpus(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, bundle.Encoder)
	assert.NotNil(t, bundle.Model)
	assert.Greater(t, bundle.Threshold, 0.0)
	assert.Equal(t, bundle.Encoder.Dim(), bundle.Model.InputDim)
}

func TestTrainExcludesFraudFromVocabulary(t *testing.T) {
	cfg := TrainConfig{Epochs: 2, LearningRate: 0.05, Seed: 42}
	bundle, err := Train(trainingCorpus(), cfg, zap.NewNop())
	require.NoError(t, err)

	// Fraud-only merchants never enter the fitted vocabulary, so at serve
	// time they encode as unknown.
	assert.NotContains(t, bundle.Encoder.Merchants, "Shady Pvt Ltd")
	assert.NotContains(t, bundle.Encoder.Categories, "Transfer")
}

func TestTrainRequiresNormalData(t *testing.T) {
	corpus := []LabeledSample{
		{Sample: Sample{Merchant: "X", Category: "Y", Amount: 1}, Fraud: true},
	}
	_, err := Train(corpus, DefaultTrainConfig(), zap.NewNop())
	assert.ErrorIs(t, err, ErrNoNormalData)
}

func TestReadCorpus(t *testing.T) {
	csvData := strings.Join([]string{
		"Transaction ID,Timestamp,Merchant,Category,Amount,Status,Location,Flag",
		"a1,2024-03-15 12:30:00,Swiggy,Food,350.50,Success,Pune,0",
		"a2,2024-03-16 02:10:00,Shady Pvt Ltd,Transfer,42000,Success,Delhi,1",
		"a3,not-a-time,Uber,Travel,220,Success,Mumbai,0",
		"a4,2024-03-17 09:00:00,Amazon,Shopping,not-a-number,Success,Pune,0",
	}, "\n")

	rows, err := ReadCorpus(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 3, "unparseable amount rows are skipped")

	assert.Equal(t, "Swiggy", rows[0].Merchant)
	assert.Equal(t, 12, rows[0].Hour)
	assert.False(t, rows[0].Fraud)
	assert.True(t, rows[1].Fraud)
	assert.Equal(t, 350.50, rows[0].Amount)
}

func TestReadCorpusMissingColumn(t *testing.T) {
	_, err := ReadCorpus(strings.NewReader("Merchant,Amount\nSwiggy,100"))
	assert.Error(t, err)
}
