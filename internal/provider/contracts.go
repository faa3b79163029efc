package provider

import "context"

// Provider is implemented by every gateway integration.
type Provider interface {
	Name() string
	Type() Type
	// IsConfigured reports whether a credential is present. It does no I/O.
	IsConfigured() bool
	// InitiatePayment returns a non-nil error exactly when Response.Success is
	// false. Validation happens before any outbound call.
	InitiatePayment(ctx context.Context, p Params) (Response, error)
	// CheckPaymentStatus never fails: problems are reported in
	// StatusResponse.Error.
	CheckPaymentStatus(ctx context.Context, orderID string) StatusResponse
}
