package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionDirectionEarn  = "earn"
	TransactionDirectionSpend = "spend"

	TransactionSourceOrder = "order"
)

type Balance struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Current   int64
	Lifetime  int64
	UpdatedAt time.Time
}

// Transaction is an immutable ledger entry. Once written it is never
// updated or deleted; the balance totals are the sum of its amounts.
type Transaction struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	BalanceID  uuid.UUID
	Direction  string
	Source     string
	ExternalID string
	Amount     int64
	Note       string
}
