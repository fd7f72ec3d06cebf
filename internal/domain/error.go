package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrAlreadyExists         = errors.New("entity already exists")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrSignatureMissing      = errors.New("webhook signature missing")
	ErrSignatureInvalid      = errors.New("webhook signature invalid")
	ErrInvalidChargeMetadata = errors.New("invalid charge metadata")
	ErrProductNotFound       = errors.New("product not found")
	ErrNotificationFailed    = errors.New("notification delivery failed")

	// Storage-layer errors
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
