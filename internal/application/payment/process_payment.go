package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/application/dto"
	"smartwallet-fraud-shield/internal/domain/risk"
	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/domain/wallet"
	"smartwallet-fraud-shield/internal/pkg/metrics"
)

const timestampLayout = "2006-01-02 15:04:05"

// Ledger is the persistence surface the processor needs: read a balance,
// settle atomically, or record a refusal. Settle must debit the balance
// and append the audit record in one transaction, re-checking funds under
// a per-user lock.
type Ledger interface {
	Balance(ctx context.Context, username string) (decimal.Decimal, error)
	Settle(ctx context.Context, username string, amount decimal.Decimal, record *transaction.AuditRecord) (decimal.Decimal, error)
	Block(ctx context.Context, record *transaction.AuditRecord) error
}

// Scorer produces a risk assessment for one payment attempt.
type Scorer interface {
	Score(tx transaction.RawTransaction) risk.Result
}

// AlertSink receives audit records for blocked payments. Delivery is best
// effort and never gates the payment outcome.
type AlertSink interface {
	Publish(ctx context.Context, record *transaction.AuditRecord) error
}

// StatsRecorder keeps running counters for the stats endpoint. Best effort.
type StatsRecorder interface {
	RecordSettled(ctx context.Context, amount decimal.Decimal) error
	RecordBlocked(ctx context.Context, record *transaction.AuditRecord) error
}

// ProcessPaymentUseCase runs a payment attempt through the full gate:
//
//	Received -> BalanceChecked -> Scored -> Settled | Blocked
//
// Insufficient funds short-circuits before scoring and leaves no audit
// trail. Every scored attempt lands in the audit table, settled or not.
type ProcessPaymentUseCase struct {
	ledger Ledger
	scorer Scorer
	audits transaction.AuditRepository

	alerts AlertSink
	stats  StatsRecorder

	log *zap.Logger
}

// NewProcessPaymentUseCase creates the payment processor. alerts and stats
// may be nil; both are optional side channels.
func NewProcessPaymentUseCase(
	ledger Ledger,
	scorer Scorer,
	audits transaction.AuditRepository,
	alerts AlertSink,
	stats StatsRecorder,
	log *zap.Logger,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		ledger: ledger,
		scorer: scorer,
		audits: audits,
		alerts: alerts,
		stats:  stats,
		log:    log,
	}
}

// Execute processes one payment attempt end to end.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, req *dto.PaymentRequest) (*dto.PaymentResponse, error) {
	tx, err := uc.mapRequest(req)
	if err != nil {
		return nil, err
	}

	// Funds gate before any scoring work. A user who cannot pay gets an
	// immediate refusal with no audit record.
	balance, err := uc.ledger.Balance(ctx, tx.Username)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(tx.Amount) {
		metrics.PaymentsTotal.WithLabelValues("insufficient_funds").Inc()
		return nil, wallet.ErrInsufficientFunds
	}

	result := uc.scorer.Score(tx)
	if result.Degraded {
		uc.log.Warn("scoring degraded, settling without model verdict",
			zap.String("username", tx.Username),
			zap.String("reason", result.Reason))
	}

	if result.Fraud {
		return uc.block(ctx, tx, balance, result)
	}
	return uc.settle(ctx, tx, result)
}

func (uc *ProcessPaymentUseCase) settle(ctx context.Context, tx transaction.RawTransaction, result risk.Result) (*dto.PaymentResponse, error) {
	record := transaction.NewAuditRecord(tx, transaction.StatusSuccess, result.Score.Int())

	newBalance, err := uc.ledger.Settle(ctx, tx.Username, tx.Amount, record)
	if err != nil {
		// A concurrent payment may have drained the balance between the
		// pre-scoring check and the locked settle.
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues("settled").Inc()
	if uc.stats != nil {
		if err := uc.stats.RecordSettled(ctx, tx.Amount); err != nil {
			uc.log.Warn("stats update failed", zap.Error(err))
		}
	}

	uc.log.Info("payment settled",
		zap.String("username", tx.Username),
		zap.String("merchant", tx.Merchant),
		zap.Int("risk_score", result.Score.Int()))

	return &dto.PaymentResponse{
		Status:     string(transaction.StatusSuccess),
		IsFraud:    false,
		RiskScore:  result.Score.Int(),
		NewBalance: newBalance.String(),
	}, nil
}

func (uc *ProcessPaymentUseCase) block(ctx context.Context, tx transaction.RawTransaction, balance decimal.Decimal, result risk.Result) (*dto.PaymentResponse, error) {
	record := transaction.NewAuditRecord(tx, transaction.StatusBlockedFraud, result.Score.Int())

	if err := uc.ledger.Block(ctx, record); err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues("blocked").Inc()
	if uc.alerts != nil {
		if err := uc.alerts.Publish(ctx, record); err != nil {
			uc.log.Warn("alert publish failed", zap.Error(err))
		}
	}
	if uc.stats != nil {
		if err := uc.stats.RecordBlocked(ctx, record); err != nil {
			uc.log.Warn("stats update failed", zap.Error(err))
		}
	}

	uc.log.Warn("payment blocked",
		zap.String("username", tx.Username),
		zap.String("merchant", tx.Merchant),
		zap.Int("risk_score", result.Score.Int()),
		zap.Float64("reconstruction_error", result.ReconstructionError))

	return &dto.PaymentResponse{
		Status:     string(transaction.StatusBlockedFraud),
		IsFraud:    true,
		RiskScore:  result.Score.Int(),
		NewBalance: balance.String(),
	}, nil
}

// History returns a user's audit trail, newest first.
func (uc *ProcessPaymentUseCase) History(ctx context.Context, username string, limit, offset int) (*dto.HistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	records, err := uc.audits.ListByUsername(ctx, username, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.HistoryResponse{Username: username, Records: make([]dto.HistoryEntry, len(records))}
	for i, rec := range records {
		resp.Records[i] = dto.HistoryEntry{
			ID:        rec.ID.String(),
			Merchant:  rec.Merchant,
			Category:  rec.Category,
			Amount:    rec.Amount.String(),
			Timestamp: rec.Timestamp.Format(timestampLayout),
			Status:    string(rec.Status),
			RiskScore: rec.RiskScore,
		}
	}
	return resp, nil
}

func (uc *ProcessPaymentUseCase) mapRequest(req *dto.PaymentRequest) (transaction.RawTransaction, error) {
	ts := time.Now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(timestampLayout, req.Timestamp)
		if err != nil {
			return transaction.RawTransaction{}, fmt.Errorf("invalid timestamp %q: %w", req.Timestamp, err)
		}
		ts = parsed
	}

	tx := transaction.RawTransaction{
		Username:  req.Username,
		Merchant:  req.Merchant,
		Category:  req.Category,
		Amount:    decimal.NewFromFloat(req.Amount),
		Timestamp: ts,
	}
	if err := tx.Validate(); err != nil {
		return transaction.RawTransaction{}, err
	}
	return tx, nil
}
