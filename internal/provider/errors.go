package provider

import "errors"

var (
	ErrValidation        = errors.New("provider: invalid params")
	ErrNotConfigured     = errors.New("provider: not configured")
	ErrProviderDisabled  = errors.New("provider: disabled")
	ErrUnknownProvider   = errors.New("provider: unknown type")
	ErrNoProviderEnabled = errors.New("provider: none enabled")
	ErrGateway           = errors.New("provider: gateway failure")
)

// Error carries a plain, caller-facing message while still matching its kind
// (one of the sentinels above) and the underlying cause with errors.Is.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func failed(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
