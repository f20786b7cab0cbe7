package event

import (
	"encoding/json"
	"fmt"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
)

// Purchase is the canonical form of a "purchase completed" webhook payload
type Purchase struct {
	OrderID    string
	CustomerID string
	Email      string
	FirstName  string
	LastName   string

	// Order total as sent by the shop, e.g. "10.00"
	TotalPrice string
}

// ParsePurchase extracts a canonical purchase event from raw payload bytes.
// Payload without a customer id returns apperrors.ErrNoCustomer: there is
// nobody to award points to, which the caller treats as a no-op.
// Malformed payload returns apperrors.ErrPayloadInvalid.
func ParsePurchase(raw []byte) (Purchase, error) {
	var payload struct {
		ID         externalID `json:"id"`
		TotalPrice string     `json:"total_price"`
		Customer   *struct {
			ID        externalID `json:"id"`
			Email     string     `json:"email"`
			FirstName string     `json:"first_name"`
			LastName  string     `json:"last_name"`
		} `json:"customer"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return Purchase{}, fmt.Errorf("%w: %s", apperrors.ErrPayloadInvalid, err)
	}

	if payload.Customer == nil || payload.Customer.ID == "" {
		return Purchase{}, apperrors.ErrNoCustomer
	}

	return Purchase{
		OrderID:    string(payload.ID),
		CustomerID: string(payload.Customer.ID),
		Email:      payload.Customer.Email,
		FirstName:  payload.Customer.FirstName,
		LastName:   payload.Customer.LastName,
		TotalPrice: payload.TotalPrice,
	}, nil
}

// externalID accepts both json strings and numbers
// Shops send numeric ids, test fixtures and some sources send strings
type externalID string

func (id *externalID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = externalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = externalID(n.String())

	return nil
}

// FullName joins first and last name the way the ledger stores it
func (p Purchase) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
