package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coinshop/internal/catalog"
	"coinshop/internal/checkout"
	"coinshop/internal/health"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
)

type CheckoutMock struct {
	mock.Mock
	CheckoutContract
}

func (m *CheckoutMock) Start(ctx context.Context, req checkout.Request) (checkout.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(checkout.Result), args.Error(1)
}

func (m *CheckoutMock) HandleReturn(ctx context.Context, orderID string, outcome checkout.Outcome, errMsg string) (purchase.Summary, error) {
	args := m.Called(ctx, orderID, outcome, errMsg)
	return args.Get(0).(purchase.Summary), args.Error(1)
}

type PaymentStatusMock struct {
	mock.Mock
	PaymentStatusContract
}

func (m *PaymentStatusMock) CheckStatus(ctx context.Context, orderID string, t provider.Type) (provider.StatusResponse, error) {
	args := m.Called(ctx, orderID, t)
	return args.Get(0).(provider.StatusResponse), args.Error(1)
}

type StoreMock struct {
	mock.Mock
	PurchaseStoreContract
}

func (m *StoreMock) Get(ctx context.Context, id string) (purchase.Purchase, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(purchase.Purchase), args.Error(1)
}

func (m *StoreMock) Summary(ctx context.Context) (purchase.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(purchase.Summary), args.Error(1)
}

func (m *StoreMock) AggregateBalance(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StoreMock) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type CatalogMock struct {
	mock.Mock
	CatalogContract
}

func (m *CatalogMock) Packages() []catalog.Package {
	args := m.Called()
	return args.Get(0).([]catalog.Package)
}

type RegistryMock struct {
	mock.Mock
	ProviderRegistryContract
}

func (m *RegistryMock) EnabledProviders() []provider.Type {
	args := m.Called()
	v, _ := args.Get(0).([]provider.Type)
	return v
}

func (m *RegistryMock) DefaultProvider() (provider.Type, error) {
	args := m.Called()
	return args.Get(0).(provider.Type), args.Error(1)
}

type HealthMock struct {
	mock.Mock
	HealthContract
}

func (m *HealthMock) Check(ctx context.Context) health.Result {
	args := m.Called(ctx)
	return args.Get(0).(health.Result)
}
