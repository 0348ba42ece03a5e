package ml

import "smartwallet-fraud-shield/internal/domain/transaction"

// Sample is one transaction flattened to the raw features the encoder
// consumes: amount, hour-of-day, day-of-week, plus the two categorical
// fields.
type Sample struct {
	Merchant  string  `json:"merchant"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Hour      int     `json:"hour"`
	DayOfWeek int     `json:"day_of_week"`
}

// NewSample derives the feature sample from a raw transaction.
func NewSample(tx transaction.RawTransaction) Sample {
	return Sample{
		Merchant:  tx.Merchant,
		Category:  tx.Category,
		Amount:    tx.Amount.InexactFloat64(),
		Hour:      tx.Hour(),
		DayOfWeek: tx.DayOfWeek(),
	}
}

// LabeledSample is a training-corpus row: a sample plus its fraud flag.
// Only unflagged rows may be used to fit the model and the threshold.
type LabeledSample struct {
	Sample
	Fraud bool `json:"fraud"`
}
