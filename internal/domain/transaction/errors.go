package transaction

import "errors"

var (
	// ErrMissingUsername is returned when the payer is not specified.
	ErrMissingUsername = errors.New("transaction username is required")

	// ErrMissingMerchant is returned when the merchant is not specified.
	ErrMissingMerchant = errors.New("transaction merchant is required")

	// ErrNegativeAmount is returned when the amount is negative.
	ErrNegativeAmount = errors.New("transaction amount cannot be negative")

	// ErrZeroAmount is returned when the amount is zero.
	ErrZeroAmount = errors.New("transaction amount cannot be zero")

	// ErrAuditNotFound is returned when no audit records exist for a query.
	ErrAuditNotFound = errors.New("audit record not found")

	// ErrAuditWriteFailed marks a persistence failure on the audit path.
	// Audit writes never fail silently: a failed write aborts the attempt.
	ErrAuditWriteFailed = errors.New("audit record write failed")
)
