package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/domain/wallet"
)

// UserModel is the database model for wallet accounts.
type UserModel struct {
	Username  string          `gorm:"type:varchar(100);primaryKey"`
	Password  string          `gorm:"type:varchar(200);not null"`
	FullName  string          `gorm:"type:varchar(200)"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for accounts.
func (UserModel) TableName() string {
	return "users"
}

// WalletRepository implements wallet.Repository plus the transactional
// settle path the payment processor requires.
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository.
func NewWalletRepository(client *Client) *WalletRepository {
	return &WalletRepository{db: client.DB()}
}

// Create stores a new account.
func (r *WalletRepository) Create(ctx context.Context, account *wallet.Account) error {
	model := &UserModel{
		Username:  account.Username,
		Password:  account.PasswordHash,
		FullName:  account.FullName,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return wallet.ErrUsernameTaken
	}
	return err
}

// GetByUsername retrieves an account by username.
func (r *WalletRepository) GetByUsername(ctx context.Context, username string) (*wallet.Account, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wallet.ErrUserNotFound
		}
		return nil, err
	}
	return modelToAccount(&model), nil
}

// UpdatePassword replaces the stored password hash.
func (r *WalletRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"password":   passwordHash,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return wallet.ErrUserNotFound
	}
	return nil
}

// Balance returns the current balance for a user.
func (r *WalletRepository) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	account, err := r.GetByUsername(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Settle atomically debits the payer and appends the audit record in a
// single database transaction. The user row is locked FOR UPDATE so
// concurrent payments by the same user serialize; either both the balance
// decrement and the audit write persist, or neither does.
func (r *WalletRepository) Settle(ctx context.Context, username string, amount decimal.Decimal, record *transaction.AuditRecord) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "username = ?", username).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wallet.ErrUserNotFound
			}
			return err
		}

		// Re-check under the lock: the pre-scoring balance check can race
		// with another settle for the same user.
		if user.Balance.LessThan(amount) {
			return wallet.ErrInsufficientFunds
		}

		newBalance = user.Balance.Sub(amount)
		if err := tx.Model(&UserModel{}).
			Where("username = ?", username).
			Updates(map[string]interface{}{
				"balance":    newBalance,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("balance update failed: %w", err)
		}

		if err := tx.Create(auditToModel(record)).Error; err != nil {
			return fmt.Errorf("%w: %v", transaction.ErrAuditWriteFailed, err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Block appends the audit record for a refused attempt. The balance is
// never touched.
func (r *WalletRepository) Block(ctx context.Context, record *transaction.AuditRecord) error {
	if err := r.db.WithContext(ctx).Create(auditToModel(record)).Error; err != nil {
		return fmt.Errorf("%w: %v", transaction.ErrAuditWriteFailed, err)
	}
	return nil
}

func modelToAccount(m *UserModel) *wallet.Account {
	return &wallet.Account{
		Username:     m.Username,
		FullName:     m.FullName,
		PasswordHash: m.Password,
		Balance:      m.Balance,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
