package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
	"github.com/nkiryanov/loyaltypoints/internal/repository"
)

type WalletService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *WalletService {
	return &WalletService{
		storage: storage,
	}
}

// Wallet is the read model for the balance lookup endpoint
type Wallet struct {
	Email     string
	Name      string
	HasWallet bool
	Points    int64
	Lifetime  int64
}

// GetByEmail returns point totals for the account with the email.
// Unknown email or an account that never earned points is a zero wallet,
// not an error: the shop asks about customers before their first purchase.
func (s *WalletService) GetByEmail(ctx context.Context, email string) (Wallet, error) {
	w := Wallet{Email: email}

	account, err := s.storage.Account().GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return w, nil
	case err != nil:
		return w, fmt.Errorf("can't get account. Err: %w", err)
	}

	w.Name = account.Name

	balance, err := s.storage.Balance().GetBalance(ctx, account.ID)
	switch {
	case errors.Is(err, apperrors.ErrBalanceNotFound):
		return w, nil
	case err != nil:
		return w, fmt.Errorf("can't get balance. Err: %w", err)
	}

	w.HasWallet = true
	w.Points = balance.Current
	w.Lifetime = balance.Lifetime

	return w, nil
}
