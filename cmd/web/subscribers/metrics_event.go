package subscribers

import (
	"context"

	"coinshop/internal/events"
	"coinshop/kit/broker"
)

type MetricsEvent struct {
	m MetricsContract
}

func NewMetricsEvent(m MetricsContract) *MetricsEvent {
	return &MetricsEvent{m: m}
}

func (h *MetricsEvent) HandleAny(ctx context.Context, evt broker.Event) error {
	if h.m == nil {
		return nil
	}

	switch e := evt.(type) {
	case events.PurchaseCreated:
		h.m.PurchasesCreatedAdd(1)
	case events.PurchaseSucceeded:
		h.m.PurchasesSucceededAdd(1)
		h.m.CoinsCreditedAdd(e.Amount)
	case events.PurchaseFailed:
		h.m.PurchasesFailedAdd(1)
	case events.PaymentInitiated:
		h.m.PaymentsInitiatedAdd(e.Provider, 1)
	}
	return nil
}
