package subscribers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coinshop/kit/broker"
)

type AuditorMock struct {
	mock.Mock
	AuditorContract
}

func (m *AuditorMock) Record(ctx context.Context, evt broker.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MetricsMock struct {
	mock.Mock
	MetricsContract
}

func (m *MetricsMock) PurchasesCreatedAdd(n int64)   { m.Called(n) }
func (m *MetricsMock) PurchasesSucceededAdd(n int64) { m.Called(n) }
func (m *MetricsMock) PurchasesFailedAdd(n int64)    { m.Called(n) }
func (m *MetricsMock) CoinsCreditedAdd(n int64)      { m.Called(n) }

func (m *MetricsMock) PaymentsInitiatedAdd(provider string, n int64) {
	m.Called(provider, n)
}
