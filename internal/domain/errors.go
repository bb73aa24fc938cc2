package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrPartyHasTransactions = fmt.Errorf("%w: party has transactions", ErrConflict)
	ErrDepositAllocated     = fmt.Errorf("%w: deposit has allocations", ErrConflict)
	ErrExceedsOutstanding   = fmt.Errorf("%w: amount exceeds outstanding balance", ErrConflict)

	ErrTransactionHasPayments = fmt.Errorf("%w: transaction has recorded payments", ErrConflict)
)

// NewValidationError wraps ErrValidation with a human readable reason.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
