package ledger

import (
	"context"
	"fmt"

	"github.com/nkiryanov/loyaltypoints/internal/models"
	"github.com/nkiryanov/loyaltypoints/internal/repository"
)

type LedgerService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *LedgerService {
	return &LedgerService{
		storage: storage,
	}
}

type ApplyPurchaseParams struct {
	CustomerID string
	Email      string
	Name       string
	OrderID    string
	Points     int64
}

// ApplyPurchase awards points for one completed purchase:
// upserts the account, ensures its balance, appends an "earn" transaction
// and increments the totals. Runs as a single database transaction, so
// readers never observe a transaction row without the matching totals.
//
// Redelivery of the same order is detected by the unique (source, external_id)
// constraint: the award is applied exactly once and the second call returns
// the untouched balance with apperrors.ErrEventAlreadyApplied.
func (s *LedgerService) ApplyPurchase(ctx context.Context, arg ApplyPurchaseParams) (models.Balance, error) {
	var balance models.Balance

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		account, err := storage.Account().UpsertAccount(ctx, repository.UpsertAccountParams{
			ExternalID: arg.CustomerID,
			Email:      arg.Email,
			Name:       arg.Name,
		})
		if err != nil {
			return fmt.Errorf("can't resolve account. Err: %w", err)
		}

		balance, err = storage.Balance().EnsureBalance(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("can't resolve balance. Err: %w", err)
		}

		_, err = storage.Transaction().CreateTransaction(ctx, repository.CreateTransactionParams{
			BalanceID:  balance.ID,
			Direction:  models.TransactionDirectionEarn,
			Source:     models.TransactionSourceOrder,
			ExternalID: arg.OrderID,
			Amount:     arg.Points,
			Note:       fmt.Sprintf("points for order %s", arg.OrderID),
		})
		if err != nil {
			// ErrEventAlreadyApplied propagates as is so the caller
			// can treat redelivery as success
			return err
		}

		balance, err = storage.Balance().AddPoints(ctx, balance.ID, arg.Points)
		if err != nil {
			return fmt.Errorf("can't update balance. Err: %w", err)
		}

		return nil
	})

	// On redelivery the tx is rolled back, but the balance read inside it
	// already carries the actual totals and may be returned to the caller
	return balance, err
}
