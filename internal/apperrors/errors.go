package apperrors

import (
	"errors"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrBalanceNotFound = errors.New("balance not found")

	ErrEventAlreadyApplied = errors.New("event already applied")

	ErrNoCustomer     = errors.New("event has no customer")
	ErrPayloadInvalid = errors.New("event payload is invalid")
)
