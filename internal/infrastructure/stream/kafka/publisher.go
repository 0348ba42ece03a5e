package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/domain/transaction"
)

// Config holds Kafka configuration.
type Config struct {
	Brokers []string
	Topic   string
}

// AlertPublisher publishes blocked-payment events to a Kafka topic so
// downstream review tooling can pick them up. A nil publisher is valid
// and drops everything, which keeps the broker optional.
type AlertPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewAlertPublisher creates a publisher for the fraud-alert topic.
func NewAlertPublisher(cfg Config, log *zap.Logger) *AlertPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	return &AlertPublisher{writer: writer, log: log}
}

type alertEvent struct {
	AuditID   string    `json:"audit_id"`
	Username  string    `json:"username"`
	Merchant  string    `json:"merchant"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	RiskScore int       `json:"risk_score"`
	Timestamp time.Time `json:"timestamp"`
}

// Publish sends one blocked payment. Events are keyed by username so
// alerts for the same user land on the same partition in order.
func (p *AlertPublisher) Publish(ctx context.Context, record *transaction.AuditRecord) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(alertEvent{
		AuditID:   record.ID.String(),
		Username:  record.Username,
		Merchant:  record.Merchant,
		Category:  record.Category,
		Amount:    record.Amount.String(),
		RiskScore: record.RiskScore,
		Timestamp: record.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.Username),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	p.log.Debug("published fraud alert",
		zap.String("username", record.Username),
		zap.Int("risk_score", record.RiskScore))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *AlertPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
