package auth

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/application/dto"
	"smartwallet-fraud-shield/internal/domain/wallet"
)

// UseCase handles account registration and credential management.
type UseCase struct {
	accounts       wallet.Repository
	openingBalance decimal.Decimal
	log            *zap.Logger
}

// NewUseCase creates the auth use case. New accounts start at openingBalance.
func NewUseCase(accounts wallet.Repository, openingBalance decimal.Decimal, log *zap.Logger) *UseCase {
	return &UseCase{
		accounts:       accounts,
		openingBalance: openingBalance,
		log:            log,
	}
}

// Register creates a new account with the configured opening balance.
func (uc *UseCase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := uc.accounts.GetByUsername(ctx, req.Username); err == nil {
		return nil, wallet.ErrUsernameTaken
	}

	account, err := wallet.NewAccount(req.Username, req.FullName, req.Password, uc.openingBalance)
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	uc.log.Info("account registered", zap.String("username", account.Username))
	return &dto.RegisterResponse{
		Username: account.Username,
		Balance:  account.Balance.String(),
		Message:  "registration successful",
	}, nil
}

// Login verifies credentials and returns the account profile.
func (uc *UseCase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := uc.accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and wrong password.
		return nil, wallet.ErrInvalidCredentials
	}
	if !account.VerifyPassword(req.Password) {
		return nil, wallet.ErrInvalidCredentials
	}

	return &dto.LoginResponse{
		Username: account.Username,
		FullName: account.FullName,
		Balance:  account.Balance.String(),
		Message:  "login successful",
	}, nil
}

// ResetPassword replaces the password for an existing account.
func (uc *UseCase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	account, err := uc.accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if err := account.SetPassword(req.NewPassword); err != nil {
		return nil, err
	}
	if err := uc.accounts.UpdatePassword(ctx, account.Username, account.PasswordHash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	uc.log.Info("password reset", zap.String("username", account.Username))
	return &dto.ResetPasswordResponse{Message: "password updated"}, nil
}
