package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreCheck pings the purchase store backend.
func StoreCheck(p Pinger) Check {
	return Check{Name: "store", Critical: true, Fn: p.Ping}
}

// ProviderCheck fails when checkout has no provider to send customers to.
func ProviderCheck(defaultProvider func() error) Check {
	return Check{Name: "providers", Critical: true, Fn: func(ctx context.Context) error {
		return defaultProvider()
	}}
}

// GatewayCheck reports open circuit breakers. Checkout still works through
// the other providers, so it only degrades.
func GatewayCheck(states func() map[string]string) Check {
	return Check{Name: "gateways", Fn: func(ctx context.Context) error {
		var open []string
		for name, st := range states() {
			if st != "closed" {
				open = append(open, name+"="+st)
			}
		}
		if len(open) == 0 {
			return nil
		}
		sort.Strings(open)
		return fmt.Errorf("circuit not closed: %s", strings.Join(open, ","))
	}}
}
