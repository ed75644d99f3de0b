package domain

import "errors"

var (
	// Ledger errors
	ErrInsufficientBalance = errors.New("amount exceeds available balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrNonMonotonicTime    = errors.New("operation time precedes account's last operation")
	ErrSameAccount         = errors.New("cannot transfer to same account")

	// Query errors
	ErrScheduleNotFound = errors.New("account has no vesting schedule")
)
