package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditStatus is the terminal outcome recorded for a payment attempt.
type AuditStatus string

const (
	// StatusSuccess means the payment settled and the balance was debited.
	StatusSuccess AuditStatus = "Success"

	// StatusBlockedFraud means the risk score crossed the decision boundary
	// and settlement was refused. The balance is untouched but the attempt
	// is still recorded - blocked attempts are investigation candidates.
	StatusBlockedFraud AuditStatus = "Failed (Fraud)"
)

// AttemptState tracks a payment attempt through the processor.
// Received -> BalanceChecked -> Scored -> {Settled | Blocked}
type AttemptState string

const (
	StateReceived       AttemptState = "received"
	StateBalanceChecked AttemptState = "balance_checked"
	StateScored         AttemptState = "scored"
	StateSettled        AttemptState = "settled"
	StateBlocked        AttemptState = "blocked"
)

// RawTransaction is a payment request as the scoring pipeline sees it:
// who pays whom, how much, in which category, and when. No single field is
// sufficient for a decision; the encoded vector is contextual.
type RawTransaction struct {
	Username  string          `json:"username"`
	Merchant  string          `json:"merchant"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hour returns the hour-of-day feature (0-23).
func (t RawTransaction) Hour() int {
	return t.Timestamp.Hour()
}

// DayOfWeek returns the day-of-week feature (0=Sunday .. 6=Saturday).
func (t RawTransaction) DayOfWeek() int {
	return int(t.Timestamp.Weekday())
}

// Validate performs basic validation on the raw transaction.
func (t RawTransaction) Validate() error {
	if t.Username == "" {
		return ErrMissingUsername
	}
	if t.Merchant == "" {
		return ErrMissingMerchant
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.Amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// AuditRecord is the append-only row written for every evaluated payment
// attempt, settled or blocked. Records are never mutated after creation.
type AuditRecord struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Timestamp time.Time       `json:"timestamp"`
	Status    AuditStatus     `json:"status"`
	RiskScore int             `json:"risk_score"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAuditRecord builds the audit row for an evaluated attempt.
func NewAuditRecord(tx RawTransaction, status AuditStatus, riskScore int) *AuditRecord {
	return &AuditRecord{
		ID:        uuid.New(),
		Username:  tx.Username,
		Merchant:  tx.Merchant,
		Amount:    tx.Amount,
		Category:  tx.Category,
		Timestamp: tx.Timestamp,
		Status:    status,
		RiskScore: riskScore,
		CreatedAt: time.Now(),
	}
}

// Blocked reports whether this attempt was refused settlement.
func (r *AuditRecord) Blocked() bool {
	return r.Status == StatusBlockedFraud
}
