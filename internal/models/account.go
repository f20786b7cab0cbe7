package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the ledger's view of a single customer identity.
// Keyed by the identifier of the customer in the external shop system.
type Account struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	ExternalID string
	Email      string
	Name       string
}
