package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
	"github.com/nkiryanov/loyaltypoints/internal/models"
	"github.com/nkiryanov/loyaltypoints/internal/repository"
)

type TransactionRepo struct {
	DB DBTX
}

// Create transaction
// If transaction with the same (source, external_id) exists already return it as is
const createTransaction = `-- name: CreateTransaction
WITH insert_transaction AS (
	INSERT INTO transactions (id, created_at, balance_id, direction, source, external_id, amount, note)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT ON CONSTRAINT transactions_source_external_id_key DO NOTHING
	RETURNING id, created_at, balance_id, direction, source, external_id, amount, note
)
SELECT * FROM insert_transaction
UNION
SELECT id, created_at, balance_id, direction, source, external_id, amount, note
FROM transactions WHERE source = $5 AND external_id = $6
`

func (r *TransactionRepo) CreateTransaction(ctx context.Context, arg repository.CreateTransactionParams) (models.Transaction, error) {
	transactionID := uuid.New()

	rows, _ := r.DB.Query(ctx, createTransaction,
		transactionID, time.Now(), arg.BalanceID, arg.Direction, arg.Source, arg.ExternalID, arg.Amount, arg.Note,
	)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err != nil:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return tr, apperrors.ErrBalanceNotFound
		}

		return tr, fmt.Errorf("db error: %w", err)
	case tr.ID != transactionID:
		// Row with the same (source, external_id) was written earlier
		return tr, apperrors.ErrEventAlreadyApplied
	default:
		return tr, nil
	}
}

const listTransactions = `-- name: ListTransactions
SELECT id, created_at, balance_id, direction, source, external_id, amount, note
FROM transactions
WHERE balance_id = $1
ORDER BY created_at DESC
`

func (r *TransactionRepo) ListTransactions(ctx context.Context, balanceID uuid.UUID) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listTransactions, balanceID)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.CreatedAt, &t.BalanceID, &t.Direction, &t.Source, &t.ExternalID, &t.Amount, &t.Note)
	return t, err
}
