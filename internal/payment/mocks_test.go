package payment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coinshop/internal/provider"
)

type RegistryMock struct {
	mock.Mock
	RegistryContract
}

func (m *RegistryMock) DefaultProvider() (provider.Type, error) {
	args := m.Called()
	return args.Get(0).(provider.Type), args.Error(1)
}

func (m *RegistryMock) CreateProvider(t provider.Type) (provider.Provider, error) {
	args := m.Called(t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.Provider), args.Error(1)
}

type ProviderMock struct {
	mock.Mock
	provider.Provider
}

func (m *ProviderMock) Type() provider.Type {
	args := m.Called()
	return args.Get(0).(provider.Type)
}

func (m *ProviderMock) InitiatePayment(ctx context.Context, p provider.Params) (provider.Response, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(provider.Response), args.Error(1)
}

func (m *ProviderMock) CheckPaymentStatus(ctx context.Context, orderID string) provider.StatusResponse {
	args := m.Called(ctx, orderID)
	return args.Get(0).(provider.StatusResponse)
}
