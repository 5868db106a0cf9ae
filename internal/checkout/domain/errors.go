package domain

import "errors"

var (
	ErrEmptyItems       = errors.New("invalid or empty items array")
	ErrMissingProductID = errors.New("missing product_id in some items")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrMissingRedirect  = errors.New("missing success_url or cancel_url")
	ErrProductMismatch  = errors.New("invalid products in cart")
	ErrPriceMismatch    = errors.New("price mismatch")
	ErrUpstream         = errors.New("product validation failed")
)
