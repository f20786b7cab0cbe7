package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
	"github.com/nkiryanov/loyaltypoints/internal/models"
	"github.com/nkiryanov/loyaltypoints/internal/repository"
)

type AccountRepo struct {
	DB DBTX
}

// Create account or refresh email and name if it exists already
const upsertAccount = `-- name: UpsertAccount
INSERT INTO accounts (external_id, email, name)
VALUES ($1, $2, $3)
ON CONFLICT (external_id) DO UPDATE
SET email = EXCLUDED.email, name = EXCLUDED.name
RETURNING id, created_at, external_id, email, name
`

func (r *AccountRepo) UpsertAccount(ctx context.Context, arg repository.UpsertAccountParams) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, upsertAccount, arg.ExternalID, arg.Email, arg.Name)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		return account, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

const getAccountByEmail = `-- name: GetAccountByEmail
SELECT id, created_at, external_id, email, name FROM accounts
WHERE email = $1
ORDER BY created_at
LIMIT 1
`

func (r *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByEmail, email)
	return collectAccount(rows)
}

const getAccountByExternalID = `-- name: GetAccountByExternalID
SELECT id, created_at, external_id, email, name FROM accounts
WHERE external_id = $1
`

func (r *AccountRepo) GetAccountByExternalID(ctx context.Context, externalID string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByExternalID, externalID)
	return collectAccount(rows)
}

func collectAccount(rows pgx.Rows) (models.Account, error) {
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.CreatedAt, &a.ExternalID, &a.Email, &a.Name)
	return a, err
}
