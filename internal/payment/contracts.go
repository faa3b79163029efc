package payment

import (
	"context"

	"coinshop/internal/provider"
)

// ServiceContract define payment orchestration responsibility.
type ServiceContract interface {
	Initiate(ctx context.Context, params provider.Params, t provider.Type) (provider.Response, error)
	CheckStatus(ctx context.Context, orderID string, t provider.Type) (provider.StatusResponse, error)
	InitiateSoleasPay(ctx context.Context, params provider.Params) (provider.Response, error)
}

// RegistryContract define provider resolution responsibility.
type RegistryContract interface {
	DefaultProvider() (provider.Type, error)
	CreateProvider(t provider.Type) (provider.Provider, error)
}
