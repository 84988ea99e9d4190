package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput     = errors.New("Given Param is not valid")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")
	ErrUnsupportedSchema = errors.New("Unsupported schema")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")

	// ledger error taxonomy, every mutating ledger operation fails with one
	// of these and leaves state untouched
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrNotOwner            = errors.New("caller is not the token owner")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrNotListed           = errors.New("token is not listed")
	ErrNotForSale          = errors.New("token is not for sale")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrSelfPurchase        = errors.New("cannot buy own token")
)
