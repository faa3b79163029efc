package checkout

import (
	"context"

	"coinshop/internal/catalog"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
	"coinshop/kit/broker"
)

// PaymentContract define payment orchestration responsibility.
type PaymentContract interface {
	Initiate(ctx context.Context, params provider.Params, t provider.Type) (provider.Response, error)
	CheckStatus(ctx context.Context, orderID string, t provider.Type) (provider.StatusResponse, error)
}

// StoreContract define the transaction store operations checkout relies on.
type StoreContract interface {
	Create(ctx context.Context, p purchase.Purchase) (purchase.Summary, error)
	Get(ctx context.Context, id string) (purchase.Purchase, error)
	UpdateStatus(ctx context.Context, id string, status purchase.Status, errorMessage string) (purchase.Summary, error)
	Summary(ctx context.Context) (purchase.Summary, error)
}

// CatalogContract define package lookup responsibility.
type CatalogContract interface {
	Resolve(id int, customCoins int64) (catalog.Package, error)
}

// RegistryContract define default provider selection.
type RegistryContract interface {
	DefaultProvider() (provider.Type, error)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}
