package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/application/dto"
	paymentapp "smartwallet-fraud-shield/internal/application/payment"
	"smartwallet-fraud-shield/internal/domain/risk"
	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/domain/wallet"
)

type testLedger struct {
	balances map[string]decimal.Decimal
	audits   []*transaction.AuditRecord
}

func (l *testLedger) Balance(_ context.Context, username string) (decimal.Decimal, error) {
	balance, ok := l.balances[username]
	if !ok {
		return decimal.Zero, wallet.ErrUserNotFound
	}
	return balance, nil
}

func (l *testLedger) Settle(_ context.Context, username string, amount decimal.Decimal, record *transaction.AuditRecord) (decimal.Decimal, error) {
	newBalance := l.balances[username].Sub(amount)
	l.balances[username] = newBalance
	l.audits = append(l.audits, record)
	return newBalance, nil
}

func (l *testLedger) Block(_ context.Context, record *transaction.AuditRecord) error {
	l.audits = append(l.audits, record)
	return nil
}

func (l *testLedger) Append(_ context.Context, record *transaction.AuditRecord) error {
	l.audits = append(l.audits, record)
	return nil
}

func (l *testLedger) ListByUsername(_ context.Context, username string, limit, offset int) ([]*transaction.AuditRecord, error) {
	var out []*transaction.AuditRecord
	for i := len(l.audits) - 1; i >= 0; i-- {
		if l.audits[i].Username == username {
			out = append(out, l.audits[i])
		}
	}
	return out, nil
}

type fixedScorer struct {
	result risk.Result
}

func (s fixedScorer) Score(transaction.RawTransaction) risk.Result {
	return s.result
}

func newPaymentHandler(ledger *testLedger, result risk.Result) *PaymentHandler {
	uc := paymentapp.NewProcessPaymentUseCase(ledger, fixedScorer{result}, ledger, nil, nil, zap.NewNop())
	return NewPaymentHandler(uc)
}

func postPay(t *testing.T, h *PaymentHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/transaction/pay", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Pay(rec, req)
	return rec
}

func TestPaySettles(t *testing.T) {
	ledger := &testLedger{balances: map[string]decimal.Decimal{"asha": decimal.NewFromInt(50000)}}
	h := newPaymentHandler(ledger, risk.Scored(0.01, 0.05))

	rec := postPay(t, h, dto.PaymentRequest{Username: "asha", Merchant: "Swiggy", Category: "Food", Amount: 500})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Success", resp.Status)
	assert.False(t, resp.IsFraud)
	assert.Equal(t, "49500", resp.NewBalance)
}

func TestPayBlocked(t *testing.T) {
	ledger := &testLedger{balances: map[string]decimal.Decimal{"asha": decimal.NewFromInt(50000)}}
	h := newPaymentHandler(ledger, risk.Scored(0.20, 0.05))

	rec := postPay(t, h, dto.PaymentRequest{Username: "asha", Merchant: "Shady Pvt Ltd", Category: "Transfer", Amount: 45000})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed (Fraud)", resp.Status)
	assert.True(t, resp.IsFraud)
	assert.Equal(t, 99, resp.RiskScore)
	assert.Equal(t, "50000", resp.NewBalance)
}

func TestPayInsufficientFunds(t *testing.T) {
	ledger := &testLedger{balances: map[string]decimal.Decimal{"asha": decimal.NewFromInt(100)}}
	h := newPaymentHandler(ledger, risk.Scored(0.01, 0.05))

	rec := postPay(t, h, dto.PaymentRequest{Username: "asha", Merchant: "Swiggy", Category: "Food", Amount: 500})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Empty(t, ledger.audits)
}

func TestPayUnknownUser(t *testing.T) {
	h := newPaymentHandler(&testLedger{balances: map[string]decimal.Decimal{}}, risk.Scored(0.01, 0.05))

	rec := postPay(t, h, dto.PaymentRequest{Username: "ghost", Merchant: "Swiggy", Category: "Food", Amount: 500})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayRejectsBadBody(t *testing.T) {
	h := newPaymentHandler(&testLedger{balances: map[string]decimal.Decimal{}}, risk.Scored(0.01, 0.05))

	req := httptest.NewRequest(http.MethodPost, "/transaction/pay", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Pay(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postPay(t, h, dto.PaymentRequest{Username: "asha", Merchant: "Swiggy", Category: "Food", Amount: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "validator rejects non-positive amounts")
}

func TestHistoryEndpoint(t *testing.T) {
	ledger := &testLedger{balances: map[string]decimal.Decimal{"asha": decimal.NewFromInt(50000)}}
	h := newPaymentHandler(ledger, risk.Scored(0.01, 0.05))

	rec := postPay(t, h, dto.PaymentRequest{Username: "asha", Merchant: "Swiggy", Category: "Food", Amount: 500})
	require.Equal(t, http.StatusOK, rec.Code)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /transaction/history/{username}", h.History)

	req := httptest.NewRequest(http.MethodGet, "/transaction/history/asha", nil)
	out := httptest.NewRecorder()
	mux.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var resp dto.HistoryResponse
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "Swiggy", resp.Records[0].Merchant)
	assert.Equal(t, "Success", resp.Records[0].Status)
}
