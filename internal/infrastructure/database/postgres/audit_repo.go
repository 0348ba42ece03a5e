package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"smartwallet-fraud-shield/internal/domain/transaction"
)

// AuditModel is the database model for the payment audit trail.
type AuditModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Username  string          `gorm:"type:varchar(100);not null;index"`
	Merchant  string          `gorm:"type:varchar(200);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Category  string          `gorm:"type:varchar(100)"`
	Timestamp time.Time       `gorm:"not null"`
	Status    string          `gorm:"type:varchar(50);not null"`
	RiskScore int             `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for audit records.
func (AuditModel) TableName() string {
	return "transaction_audits"
}

// AuditRepository implements transaction.AuditRepository on PostgreSQL.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(client *Client) *AuditRepository {
	return &AuditRepository{db: client.DB()}
}

// Append stores one audit record.
func (r *AuditRepository) Append(ctx context.Context, record *transaction.AuditRecord) error {
	if err := r.db.WithContext(ctx).Create(auditToModel(record)).Error; err != nil {
		return fmt.Errorf("%w: %v", transaction.ErrAuditWriteFailed, err)
	}
	return nil
}

// ListByUsername returns a user's audit records, newest first.
func (r *AuditRepository) ListByUsername(ctx context.Context, username string, limit, offset int) ([]*transaction.AuditRecord, error) {
	var models []AuditModel
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]*transaction.AuditRecord, len(models))
	for i := range models {
		records[i] = modelToAudit(&models[i])
	}
	return records, nil
}

func auditToModel(rec *transaction.AuditRecord) *AuditModel {
	return &AuditModel{
		ID:        rec.ID,
		Username:  rec.Username,
		Merchant:  rec.Merchant,
		Amount:    rec.Amount,
		Category:  rec.Category,
		Timestamp: rec.Timestamp,
		Status:    string(rec.Status),
		RiskScore: rec.RiskScore,
		CreatedAt: rec.CreatedAt,
	}
}

func modelToAudit(m *AuditModel) *transaction.AuditRecord {
	return &transaction.AuditRecord{
		ID:        m.ID,
		Username:  m.Username,
		Merchant:  m.Merchant,
		Amount:    m.Amount,
		Category:  m.Category,
		Timestamp: m.Timestamp,
		Status:    transaction.AuditStatus(m.Status),
		RiskScore: m.RiskScore,
		CreatedAt: m.CreatedAt,
	}
}
