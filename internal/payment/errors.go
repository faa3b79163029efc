package payment

import "coinshop/internal/provider"

const defaultInitiationError = "Payment initiation failed"

// Error is the single failure shape handed to callers of Initiate. Error()
// is the plain message; errors.Is still reaches the cause.
type Error struct {
	Provider provider.Type
	Message  string
	Cause    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }
