package handlers

import (
	"context"

	"coinshop/internal/catalog"
	"coinshop/internal/checkout"
	"coinshop/internal/health"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
)

type CheckoutContract interface {
	Start(ctx context.Context, req checkout.Request) (checkout.Result, error)
	HandleReturn(ctx context.Context, orderID string, outcome checkout.Outcome, errMsg string) (purchase.Summary, error)
}

type PaymentStatusContract interface {
	CheckStatus(ctx context.Context, orderID string, t provider.Type) (provider.StatusResponse, error)
}

type PurchaseStoreContract interface {
	Get(ctx context.Context, id string) (purchase.Purchase, error)
	Summary(ctx context.Context) (purchase.Summary, error)
	AggregateBalance(ctx context.Context) (int64, error)
	Reset(ctx context.Context) error
}

type CatalogContract interface {
	Packages() []catalog.Package
}

type ProviderRegistryContract interface {
	EnabledProviders() []provider.Type
	DefaultProvider() (provider.Type, error)
}

type HealthContract interface {
	Check(ctx context.Context) health.Result
}
