package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/loyaltypoints/internal/models"
)

type UpsertAccountParams struct {
	ExternalID string
	Email      string
	Name       string
}

// Account repository interface
type AccountRepo interface {
	// Find account by external id or create it
	// If account exists already its email and name are refreshed (last write wins)
	UpsertAccount(ctx context.Context, arg UpsertAccountParams) (models.Account, error)

	// Get account by it's email or external id
	// If account not found must return apperrors.ErrAccountNotFound
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)
	GetAccountByExternalID(ctx context.Context, externalID string) (models.Account, error)
}

// Balance repository interface
type BalanceRepo interface {
	// Find balance for the account or create it with zero totals
	EnsureBalance(ctx context.Context, accountID uuid.UUID) (models.Balance, error)

	// Get balance for the account
	// If balance not found must return apperrors.ErrBalanceNotFound
	GetBalance(ctx context.Context, accountID uuid.UUID) (models.Balance, error)

	// Add delta to current and lifetime totals in a single atomic update
	AddPoints(ctx context.Context, balanceID uuid.UUID, delta int64) (models.Balance, error)
}

type CreateTransactionParams struct {
	BalanceID  uuid.UUID
	Direction  string
	Source     string
	ExternalID string
	Amount     int64
	Note       string
}

// Transaction repository interface
// Transactions are append only: there are no update or delete methods on purpose
type TransactionRepo interface {
	// Create transaction
	// If a transaction with the same (source, external id) exists already
	// has to return it as is with error apperrors.ErrEventAlreadyApplied
	CreateTransaction(ctx context.Context, arg CreateTransactionParams) (models.Transaction, error)

	// List transactions for the balance, newest first
	ListTransactions(ctx context.Context, balanceID uuid.UUID) ([]models.Transaction, error)
}

type Storage interface {
	Account() AccountRepo
	Balance() BalanceRepo
	Transaction() TransactionRepo

	// Run fn within single database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
