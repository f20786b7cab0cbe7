package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
	"github.com/nkiryanov/loyaltypoints/internal/models"
	"github.com/nkiryanov/loyaltypoints/internal/repository"
	"github.com/nkiryanov/loyaltypoints/internal/testutil"
)

func TestBalance(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(storage repository.Storage, account models.Account)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)
			account, err := storage.Account().UpsertAccount(t.Context(), repository.UpsertAccountParams{
				ExternalID: "C1",
				Email:      "jane@example.com",
				Name:       "Jane Doe",
			})
			require.NoError(t, err)

			fn(storage, account)
		})
	}

	t.Run("EnsureBalance", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, account models.Account) {
				balance, err := storage.Balance().EnsureBalance(t.Context(), account.ID)

				require.NoError(t, err, "balance has to be created ok")
				require.NotEmpty(t, balance.ID)
				require.Equal(t, account.ID, balance.AccountID)
				require.Zero(t, balance.Current, "current total should be zero for new balance")
				require.Zero(t, balance.Lifetime, "lifetime total should be zero for new balance")
			})
		})

		t.Run("ensure twice returns same balance", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, account models.Account) {
				first, err := storage.Balance().EnsureBalance(t.Context(), account.ID)
				require.NoError(t, err)

				second, err := storage.Balance().EnsureBalance(t.Context(), account.ID)

				require.NoError(t, err, "ensuring balance twice should not fail")
				require.Equal(t, first.ID, second.ID, "exactly one balance per account")
			})
		})

		t.Run("unknown account", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, _ models.Account) {
				_, err := storage.Balance().EnsureBalance(t.Context(), uuid.New())

				require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
			})
		})
	})

	t.Run("GetBalance", func(t *testing.T) {
		t.Run("get nonexistent balance", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, account models.Account) {
				_, err := storage.Balance().GetBalance(t.Context(), account.ID)

				require.ErrorIs(t, err, apperrors.ErrBalanceNotFound, "should return well known error")
			})
		})
	})

	t.Run("AddPoints", func(t *testing.T) {
		t.Run("increments both totals", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, account models.Account) {
				balance, err := storage.Balance().EnsureBalance(t.Context(), account.ID)
				require.NoError(t, err)

				updated, err := storage.Balance().AddPoints(t.Context(), balance.ID, 30)

				require.NoError(t, err)
				require.Equal(t, int64(30), updated.Current)
				require.Equal(t, int64(30), updated.Lifetime)
				require.True(t, updated.UpdatedAt.After(balance.UpdatedAt) || updated.UpdatedAt.Equal(balance.UpdatedAt))

				updated, err = storage.Balance().AddPoints(t.Context(), balance.ID, 15)

				require.NoError(t, err)
				require.Equal(t, int64(45), updated.Current, "awards should be summed")
				require.Equal(t, int64(45), updated.Lifetime)
			})
		})

		t.Run("zero delta keeps totals", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, account models.Account) {
				balance, err := storage.Balance().EnsureBalance(t.Context(), account.ID)
				require.NoError(t, err)

				updated, err := storage.Balance().AddPoints(t.Context(), balance.ID, 0)

				require.NoError(t, err)
				require.Zero(t, updated.Current)
				require.Zero(t, updated.Lifetime)
			})
		})

		t.Run("unknown balance", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, _ models.Account) {
				_, err := storage.Balance().AddPoints(t.Context(), uuid.New(), 30)

				require.ErrorIs(t, err, apperrors.ErrBalanceNotFound)
			})
		})
	})
}
