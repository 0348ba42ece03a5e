package dto

// AnalyzedRow is one scored row from an uploaded statement.
type AnalyzedRow struct {
	Merchant  string  `json:"merchant"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	RiskScore int     `json:"risk_score"`
	Risk      string  `json:"risk"`
}

// AnalysisReport summarizes a scored statement upload.
type AnalysisReport struct {
	TotalProcessed int           `json:"total_processed"`
	FraudFound     int           `json:"fraud_found"`
	DegradedRows   int           `json:"degraded_rows,omitempty"`
	Preview        []AnalyzedRow `json:"preview"`
}
