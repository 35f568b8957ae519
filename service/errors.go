package service

import "errors"

var (
	// ErrValidation marks bad user input. Reported verbatim, never retried.
	ErrValidation = errors.New("validation error")

	// ErrNoEntitlement means the user has neither enough free credits for
	// the measured duration nor an API key of their own.
	ErrNoEntitlement = errors.New("no free credits left and no api key set")

	// ErrNonRetryable marks queue-path failures whose root cause will not go
	// away on redelivery (bad input file, validation, entitlement).
	ErrNonRetryable = errors.New("non-retryable error")
)
