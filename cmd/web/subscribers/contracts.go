package subscribers

import (
	"context"

	"coinshop/kit/broker"
)

type AuditorContract interface {
	Record(ctx context.Context, evt broker.Event) error
}

type MetricsContract interface {
	PurchasesCreatedAdd(n int64)
	PurchasesSucceededAdd(n int64)
	PurchasesFailedAdd(n int64)
	PaymentsInitiatedAdd(provider string, n int64)
	CoinsCreditedAdd(n int64)
}

type SubscriberContract interface {
	Subscribe(eventName string, h broker.Handler)
}
