package service

import "errors"

// Error taxonomy returned to transport. All failures are synchronous; nothing
// is retried inside this core.
var (
	ErrValidation                = errors.New("invalid input")
	ErrNotFound                  = errors.New("not found")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrOutOfStock                = errors.New("out of stock")
	ErrAddressIncomplete         = errors.New("delivery address incomplete")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrGatewayUnavailable        = errors.New("payment gateway unavailable")
	ErrInvalidTransition         = errors.New("invalid status transition")
	ErrOrderLocked               = errors.New("order locked for address changes")
)
