package analysis

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/application/dto"
	"smartwallet-fraud-shield/internal/domain/risk"
	"smartwallet-fraud-shield/internal/domain/transaction"
)

const previewRows = 10

// BatchScorer scores many attempts concurrently, preserving input order.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, txs []transaction.RawTransaction) ([]risk.Result, error)
}

// AnalyzeBatchUseCase scores an uploaded statement offline. Rows are
// evaluated with the same pipeline the payment gate uses, but nothing is
// settled or audited; the output is a report.
type AnalyzeBatchUseCase struct {
	scorer BatchScorer
	log    *zap.Logger
}

// NewAnalyzeBatchUseCase creates the batch analysis use case.
func NewAnalyzeBatchUseCase(scorer BatchScorer, log *zap.Logger) *AnalyzeBatchUseCase {
	return &AnalyzeBatchUseCase{scorer: scorer, log: log}
}

// Execute parses a CSV statement and scores every row.
func (uc *AnalyzeBatchUseCase) Execute(ctx context.Context, username string, r io.Reader) (*dto.AnalysisReport, error) {
	txs, err := readStatement(username, r)
	if err != nil {
		return nil, err
	}

	results, err := uc.scorer.ScoreBatch(ctx, txs)
	if err != nil {
		return nil, err
	}

	report := &dto.AnalysisReport{TotalProcessed: len(results)}
	for i, res := range results {
		if res.Fraud {
			report.FraudFound++
		}
		if res.Degraded {
			report.DegradedRows++
		}
		if i < previewRows {
			label := "Safe"
			if res.Fraud {
				label = "High"
			}
			report.Preview = append(report.Preview, dto.AnalyzedRow{
				Merchant:  txs[i].Merchant,
				Category:  txs[i].Category,
				Amount:    txs[i].Amount.InexactFloat64(),
				RiskScore: res.Score.Int(),
				Risk:      label,
			})
		}
	}

	uc.log.Info("statement analyzed",
		zap.String("username", username),
		zap.Int("rows", report.TotalProcessed),
		zap.Int("fraud_found", report.FraudFound))
	return report, nil
}

// statementLayouts are tried in order when parsing statement timestamps.
var statementLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// readStatement parses uploaded CSV rows into scoreable transactions.
// Requires Merchant, Category and Amount columns; Timestamp is optional.
func readStatement(username string, r io.Reader) ([]transaction.RawTransaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"merchant", "category", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("statement is missing required column %q", required)
		}
	}

	var txs []transaction.RawTransaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read statement row: %w", err)
		}

		amount, err := strconv.ParseFloat(field(record, cols, "amount"), 64)
		if err != nil {
			continue // skip unparseable rows rather than abort the upload
		}

		ts := time.Now()
		if raw := field(record, cols, "timestamp"); raw != "" {
			for _, layout := range statementLayouts {
				if parsed, err := time.Parse(layout, raw); err == nil {
					ts = parsed
					break
				}
			}
		}

		txs = append(txs, transaction.RawTransaction{
			Username:  username,
			Merchant:  field(record, cols, "merchant"),
			Category:  field(record, cols, "category"),
			Amount:    decimal.NewFromFloat(amount),
			Timestamp: ts,
		})
	}
	return txs, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
