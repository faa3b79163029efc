package provider

import (
	"fmt"
	"unicode/utf8"
)

const (
	MaxDescriptionLength = 50
	MaxOrderIDLength     = 32
)

// ValidateParams rejects params no gateway would accept. Errors name the
// offending field first.
func ValidateParams(p Params) error {
	switch {
	case p.Amount <= 0:
		return newError(ErrValidation, "amount: must be a positive integer", nil)
	case p.Currency != "" && utf8.RuneCountInString(p.Currency) != 3:
		return newError(ErrValidation, "currency: must be a 3-letter code", nil)
	case p.OrderID == "":
		return newError(ErrValidation, "orderId: is required", nil)
	case utf8.RuneCountInString(p.Description) > MaxDescriptionLength:
		return newError(ErrValidation, fmt.Sprintf("description: too long, must be at most %d characters", MaxDescriptionLength), nil)
	case utf8.RuneCountInString(p.OrderID) > MaxOrderIDLength:
		return newError(ErrValidation, fmt.Sprintf("orderId: too long, must be at most %d characters", MaxOrderIDLength), nil)
	case p.SuccessURL == "":
		return newError(ErrValidation, "successUrl: is required", nil)
	case p.FailureURL == "":
		return newError(ErrValidation, "failureUrl: is required", nil)
	}
	return nil
}
