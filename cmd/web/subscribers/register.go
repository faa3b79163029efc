package subscribers

import "coinshop/internal/events"

// Names lists every event the service publishes.
var Names = []string{
	events.PurchaseCreated{}.Name(),
	events.PurchaseSucceeded{}.Name(),
	events.PurchaseFailed{}.Name(),
	events.PaymentInitiated{}.Name(),
}

// Register subscribes the audit trail and the metrics counters to every
// published event.
func Register(bus SubscriberContract, audit *AuditEvent, metrics *MetricsEvent) {
	for _, name := range Names {
		if audit != nil {
			bus.Subscribe(name, audit.HandleAny)
		}
		if metrics != nil {
			bus.Subscribe(name, metrics.HandleAny)
		}
	}
}
