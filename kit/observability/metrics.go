package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters. Every instance registers on its own
// registerer so tests can build one per case.
type Metrics struct {
	PurchasesCreated   prometheus.Counter
	PurchasesSucceeded prometheus.Counter
	PurchasesFailed    prometheus.Counter
	PaymentsInitiated  *prometheus.CounterVec
	CoinsCredited      prometheus.Counter
	GatewayRequests    *prometheus.CounterVec
	GatewayInFlight    *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PurchasesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinshop_purchases_created_total",
			Help: "Purchases recorded in pending state.",
		}),
		PurchasesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinshop_purchases_succeeded_total",
			Help: "Purchases transitioned to success.",
		}),
		PurchasesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinshop_purchases_failed_total",
			Help: "Purchases transitioned to failed.",
		}),
		PaymentsInitiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coinshop_payments_initiated_total",
			Help: "Payment initiations handed to a gateway, by provider.",
		}, []string{"provider"}),
		CoinsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinshop_coins_credited_total",
			Help: "Coins credited by successful purchases.",
		}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coinshop_gateway_requests_total",
			Help: "Gateway REST calls by gateway, method and result.",
		}, []string{"gateway", "method", "result"}),
		GatewayInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coinshop_gateway_requests_in_flight",
			Help: "Gateway REST calls currently outstanding.",
		}, []string{"gateway"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.PurchasesCreated,
			m.PurchasesSucceeded,
			m.PurchasesFailed,
			m.PaymentsInitiated,
			m.CoinsCredited,
			m.GatewayRequests,
			m.GatewayInFlight,
		)
	}
	return m
}

func (m *Metrics) PurchasesCreatedAdd(n int64) {
	m.PurchasesCreated.Add(float64(n))
}

func (m *Metrics) PurchasesSucceededAdd(n int64) {
	m.PurchasesSucceeded.Add(float64(n))
}

func (m *Metrics) PurchasesFailedAdd(n int64) {
	m.PurchasesFailed.Add(float64(n))
}

func (m *Metrics) PaymentsInitiatedAdd(provider string, n int64) {
	m.PaymentsInitiated.WithLabelValues(provider).Add(float64(n))
}

func (m *Metrics) CoinsCreditedAdd(n int64) {
	m.CoinsCredited.Add(float64(n))
}

// ObserveGatewayRequest satisfies the gateway client's instrumentation hook.
func (m *Metrics) ObserveGatewayRequest(gateway, method, result string) {
	m.GatewayRequests.WithLabelValues(gateway, method, result).Inc()
}

func (m *Metrics) GatewayInFlightAdd(gateway string, delta float64) {
	m.GatewayInFlight.WithLabelValues(gateway).Add(delta)
}
