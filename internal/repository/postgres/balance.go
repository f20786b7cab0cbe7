package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
	"github.com/nkiryanov/loyaltypoints/internal/models"
)

type BalanceRepo struct {
	DB DBTX
}

// Create balance with zero totals for the account
// If balance exists already return it as is
const ensureBalance = `-- name: EnsureBalance
WITH insert_balance AS (
	INSERT INTO balances (account_id, current, lifetime)
	VALUES ($1, 0, 0)
	ON CONFLICT (account_id) DO NOTHING
	RETURNING id, account_id, current, lifetime, updated_at
)
SELECT * FROM insert_balance
UNION
SELECT id, account_id, current, lifetime, updated_at FROM balances WHERE account_id = $1
`

func (r *BalanceRepo) EnsureBalance(ctx context.Context, accountID uuid.UUID) (models.Balance, error) {
	rows, _ := r.DB.Query(ctx, ensureBalance, accountID)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return balance, apperrors.ErrAccountNotFound
		}

		return balance, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

const getBalance = `-- name: GetBalance
SELECT id, account_id, current, lifetime, updated_at FROM balances
WHERE account_id = $1
`

func (r *BalanceRepo) GetBalance(ctx context.Context, accountID uuid.UUID) (models.Balance, error) {
	rows, _ := r.DB.Query(ctx, getBalance, accountID)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrBalanceNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

// Single atomic increment so concurrent awards never read stale totals
const addPoints = `-- name: AddPoints
UPDATE balances
SET current = current + $2, lifetime = lifetime + $2, updated_at = now()
WHERE id = $1
RETURNING id, account_id, current, lifetime, updated_at
`

func (r *BalanceRepo) AddPoints(ctx context.Context, balanceID uuid.UUID, delta int64) (models.Balance, error) {
	rows, _ := r.DB.Query(ctx, addPoints, balanceID, delta)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrBalanceNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

func rowToBalance(row pgx.CollectableRow) (models.Balance, error) {
	var b models.Balance
	err := row.Scan(&b.ID, &b.AccountID, &b.Current, &b.Lifetime, &b.UpdatedAt)
	return b, err
}
