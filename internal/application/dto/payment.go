package dto

// PaymentRequest is one payment attempt to score and settle.
type PaymentRequest struct {
	Username string  `json:"username" validate:"required"`
	Merchant string  `json:"merchant" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	// Optional event time as "2006-01-02 15:04:05"; defaults to now.
	Timestamp string `json:"timestamp,omitempty"`
}

// PaymentResponse is the outcome of a payment attempt. This shape is the
// whole caller-facing contract: scoring internals (reconstruction error,
// degraded fallbacks) surface through logs and metrics only.
type PaymentResponse struct {
	Status     string `json:"status"`
	IsFraud    bool   `json:"is_fraud"`
	RiskScore  int    `json:"risk_score"`
	NewBalance string `json:"new_balance"`
}

// HistoryEntry is one audit record in a user's payment history.
type HistoryEntry struct {
	ID        string `json:"id"`
	Merchant  string `json:"merchant"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	RiskScore int    `json:"risk_score"`
}

// HistoryResponse is a user's payment history page.
type HistoryResponse struct {
	Username string         `json:"username"`
	Records  []HistoryEntry `json:"records"`
}
