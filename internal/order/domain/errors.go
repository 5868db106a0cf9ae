package domain

import "errors"

var (
	ErrMissingSession    = errors.New("no session ID found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentIncomplete = errors.New("payment not completed")
	ErrNotFound          = errors.New("order not found")
	ErrAlreadyPlaced     = errors.New("order already placed for this session")
	ErrConfirmInProgress = errors.New("order confirmation already in progress")
	ErrSessionOwner      = errors.New("checkout session belongs to another user")
	ErrAmountMismatch    = errors.New("cart total does not match the amount paid")
)
