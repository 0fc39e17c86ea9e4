package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrForbidden          = errors.New("operation not allowed for this role or tenant")
	ErrInvalidTransition  = errors.New("invalid validation transition")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrNoSubscription     = errors.New("company has no subscription")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrEntityLocked       = errors.New("entity is locked by another operation")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
