package model

import "errors"

// Business failures are sentinel errors so callers can branch with errors.Is
// while still carrying a human-readable reason via wrapping.
var (
	ErrValidation            = errors.New("invalid input")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrNotFound              = errors.New("not found")
	ErrOrderNotPending       = errors.New("order is not pending")
	ErrPaymentExpired        = errors.New("payment code has expired")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrBankInsufficientFunds = errors.New("bank has insufficient funds")
	ErrConflict              = errors.New("conflict, lost a concurrent race")
	ErrCodeTaken             = errors.New("payment code already held by a pending order")
	ErrPersistence           = errors.New("storage unavailable")
)
