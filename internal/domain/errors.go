package domain

import "errors"

// Sentinel errors for domain-level error handling. The handler layer
// maps these to HTTP status codes.
//
// ErrOrderNotFound is deliberately cause-blind: a fully filled order,
// an already cancelled order, and an id that never existed are
// indistinguishable to the caller.
var (
	ErrInvalidOrder  = errors.New("invalid_order")
	ErrOrderNotFound = errors.New("order_not_found")
)
