package wallet

import "errors"

var (
	// ErrUserNotFound is returned when no account exists for a username.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidUsername is returned when the username is empty or malformed.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrWeakPassword is returned when a password does not meet the minimum length.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientFunds is returned when a payment exceeds the balance.
	// It is a terminal failure: no scoring runs and no audit record is written.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrNegativeBalance is returned when an account would be created with
	// or mutated into a negative balance.
	ErrNegativeBalance = errors.New("balance cannot be negative")
)
