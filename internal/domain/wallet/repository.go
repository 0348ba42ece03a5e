package wallet

import "context"

// Repository defines the contract for account persistence.
type Repository interface {
	// Create stores a new account. Returns ErrUsernameTaken on conflict.
	Create(ctx context.Context, account *Account) error

	// GetByUsername retrieves an account. Returns ErrUserNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
