package billing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidAmount           = errors.New("invalid payment amount")
	ErrInvoiceNotFound         = errors.New("invoice not found")
	ErrInvoiceNotIssued        = errors.New("invoice has not been issued")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvoiceHasPayments      = errors.New("invoice has payments")
	ErrForbidden               = errors.New("forbidden")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
