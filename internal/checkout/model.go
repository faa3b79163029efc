package checkout

import (
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
)

type Request struct {
	PackageID     int
	CustomCoins   int64
	Provider      provider.Type
	CustomerName  string
	CustomerEmail string
}

type Result struct {
	OrderID  string
	Provider provider.Type
	Purchase purchase.Purchase
	Response provider.Response
}

// Outcome is which return URL the gateway sent the customer to.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type Config struct {
	// PublicBaseURL is where the gateway sends the customer back to.
	PublicBaseURL string
	Currency      string
	ShopName      string
	// TrustUnverifiedReturns marks a purchase successful on the success
	// redirect alone when the gateway offers no way to confirm it.
	TrustUnverifiedReturns bool
}
