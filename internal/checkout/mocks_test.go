package checkout

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coinshop/internal/provider"
	"coinshop/kit/broker"
)

type PaymentMock struct {
	mock.Mock
	PaymentContract
}

func (m *PaymentMock) Initiate(ctx context.Context, params provider.Params, t provider.Type) (provider.Response, error) {
	args := m.Called(ctx, params, t)
	return args.Get(0).(provider.Response), args.Error(1)
}

func (m *PaymentMock) CheckStatus(ctx context.Context, orderID string, t provider.Type) (provider.StatusResponse, error) {
	args := m.Called(ctx, orderID, t)
	return args.Get(0).(provider.StatusResponse), args.Error(1)
}

type RegistryMock struct {
	mock.Mock
	RegistryContract
}

func (m *RegistryMock) DefaultProvider() (provider.Type, error) {
	args := m.Called()
	return args.Get(0).(provider.Type), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
	PublisherContract
}

func (m *PublisherMock) Publish(ctx context.Context, evt broker.Event) []error {
	m.Called(ctx, evt)
	return nil
}
