package transaction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTx() RawTransaction {
	return RawTransaction{
		Username:  "asha",
		Merchant:  "Swiggy",
		Category:  "Food",
		Amount:    decimal.NewFromInt(350),
		Timestamp: time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC), // a Friday
	}
}

func TestRawTransactionFeatures(t *testing.T) {
	tx := validTx()
	assert.Equal(t, 2, tx.Hour())
	assert.Equal(t, 5, tx.DayOfWeek())
}

func TestRawTransactionValidate(t *testing.T) {
	require.NoError(t, validTx().Validate())

	tx := validTx()
	tx.Username = ""
	assert.ErrorIs(t, tx.Validate(), ErrMissingUsername)

	tx = validTx()
	tx.Merchant = ""
	assert.ErrorIs(t, tx.Validate(), ErrMissingMerchant)

	tx = validTx()
	tx.Amount = decimal.NewFromInt(-5)
	assert.ErrorIs(t, tx.Validate(), ErrNegativeAmount)

	tx = validTx()
	tx.Amount = decimal.Zero
	assert.ErrorIs(t, tx.Validate(), ErrZeroAmount)
}

func TestNewAuditRecord(t *testing.T) {
	tx := validTx()
	rec := NewAuditRecord(tx, StatusBlockedFraud, 85)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rec.ID.String())
	assert.Equal(t, tx.Username, rec.Username)
	assert.Equal(t, tx.Merchant, rec.Merchant)
	assert.True(t, rec.Amount.Equal(tx.Amount))
	assert.Equal(t, 85, rec.RiskScore)
	assert.True(t, rec.Blocked())

	settled := NewAuditRecord(tx, StatusSuccess, 12)
	assert.False(t, settled.Blocked())
}
