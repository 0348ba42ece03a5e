package auth

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartwallet-fraud-shield/internal/application/dto"
	"smartwallet-fraud-shield/internal/domain/wallet"
)

type memoryAccounts struct {
	accounts map[string]*wallet.Account
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{accounts: make(map[string]*wallet.Account)}
}

func (m *memoryAccounts) Create(_ context.Context, account *wallet.Account) error {
	if _, ok := m.accounts[account.Username]; ok {
		return wallet.ErrUsernameTaken
	}
	copied := *account
	m.accounts[account.Username] = &copied
	return nil
}

func (m *memoryAccounts) GetByUsername(_ context.Context, username string) (*wallet.Account, error) {
	account, ok := m.accounts[username]
	if !ok {
		return nil, wallet.ErrUserNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *memoryAccounts) UpdatePassword(_ context.Context, username, passwordHash string) error {
	account, ok := m.accounts[username]
	if !ok {
		return wallet.ErrUserNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

func newUseCase() (*UseCase, *memoryAccounts) {
	repo := newMemoryAccounts()
	return NewUseCase(repo, decimal.NewFromInt(50000), zap.NewNop()), repo
}

func TestRegisterOpensAccountWithBalance(t *testing.T) {
	uc, repo := newUseCase()

	resp, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Username: "asha",
		FullName: "Asha Rao",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha", resp.Username)
	assert.Equal(t, "50000", resp.Balance)

	stored := repo.accounts["asha"]
	require.NotNil(t, stored)
	assert.True(t, stored.VerifyPassword("s3cret!"))
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	uc, _ := newUseCase()
	req := &dto.RegisterRequest{Username: "asha", FullName: "Asha Rao", Password: "s3cret!"}

	_, err := uc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, wallet.ErrUsernameTaken)
}

func TestRegisterWeakPassword(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Username: "asha", FullName: "Asha Rao", Password: "abc",
	})
	assert.ErrorIs(t, err, wallet.ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Username: "asha", FullName: "Asha Rao", Password: "s3cret!",
	})
	require.NoError(t, err)

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{Username: "asha", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", resp.FullName)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Username: "asha", Password: "wrong"})
	assert.ErrorIs(t, err, wallet.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Username: "ghost", Password: "s3cret!"})
	assert.ErrorIs(t, err, wallet.ErrInvalidCredentials, "unknown user is indistinguishable from wrong password")
}

func TestResetPassword(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Username: "asha", FullName: "Asha Rao", Password: "s3cret!",
	})
	require.NoError(t, err)

	_, err = uc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Username: "asha", NewPassword: "n3w-secret",
	})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Username: "asha", Password: "n3w-secret"})
	assert.NoError(t, err)
	_, err = uc.Login(context.Background(), &dto.LoginRequest{Username: "asha", Password: "s3cret!"})
	assert.ErrorIs(t, err, wallet.ErrInvalidCredentials)

	_, err = uc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Username: "ghost", NewPassword: "n3w-secret",
	})
	assert.ErrorIs(t, err, wallet.ErrUserNotFound)
}
