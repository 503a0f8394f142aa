package domain

import "errors"

// Validation failures abort a single operation and leave both stores
// unchanged. Callers match with errors.Is and map to a response.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderProcessed    = errors.New("order already processed")
	ErrOrderNotApproved  = errors.New("order is not approved")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)
