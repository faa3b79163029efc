package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventNames(t *testing.T) {
	now := time.Now().UTC()

	var tests = []struct {
		name     string
		evt      interface{ Name() string }
		expected string
	}{
		{name: "purchase.created", evt: PurchaseCreated{At: now}, expected: "purchase.created"},
		{name: "purchase.succeeded", evt: PurchaseSucceeded{At: now}, expected: "purchase.succeeded"},
		{name: "purchase.failed", evt: PurchaseFailed{At: now}, expected: "purchase.failed"},
		{name: "payment.initiated", evt: PaymentInitiated{At: now}, expected: "payment.initiated"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, tt.evt.Name())
		})
	}
}

func TestPartitionKeys(t *testing.T) {
	var tests = []struct {
		name string
		evt  interface{ PartitionKey() string }
	}{
		{name: "created", evt: PurchaseCreated{OrderID: "TKT-AB12C"}},
		{name: "succeeded", evt: PurchaseSucceeded{OrderID: "TKT-AB12C"}},
		{name: "failed", evt: PurchaseFailed{OrderID: "TKT-AB12C"}},
		{name: "initiated", evt: PaymentInitiated{OrderID: "TKT-AB12C"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, "TKT-AB12C", tt.evt.PartitionKey())
		})
	}
}
