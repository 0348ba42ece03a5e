package wallet

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Account represents a wallet holder: credentials plus a spendable balance.
// The balance is the single mutable piece of state the payment path touches,
// and every mutation goes through the transactional settle path - never
// through direct field writes.
type Account struct {
	Username     string          `json:"username"`
	FullName     string          `json:"full_name"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates an account with a hashed password and an opening balance.
func NewAccount(username, fullName, password string, openingBalance decimal.Decimal) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if openingBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	now := time.Now()
	a := &Account{
		Username:  username,
		FullName:  fullName,
		Balance:   openingBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.SetPassword(password); err != nil {
		return nil, err
	}
	return a, nil
}

// SetPassword hashes and stores the given password.
func (a *Account) SetPassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	a.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// CanAfford reports whether the balance covers the requested amount.
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
