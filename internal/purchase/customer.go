package purchase

import "context"

type customerKey struct{}

// WithCustomer scopes every store call made with the returned context to one
// customer's history and balance.
func WithCustomer(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerKey{}, customerID)
}

// CustomerFrom returns the customer the context is scoped to, or "" for the
// shared unscoped keys.
func CustomerFrom(ctx context.Context) string {
	id, _ := ctx.Value(customerKey{}).(string)
	return id
}

type keys struct {
	history string
	balance string
	lock    string
}

func keysFor(ctx context.Context) keys {
	id := CustomerFrom(ctx)
	if id == "" {
		return keys{history: KeyHistory, balance: KeyBalance, lock: lockName}
	}
	prefix := "customers/" + id + "/"
	return keys{history: prefix + KeyHistory, balance: prefix + KeyBalance, lock: lockName + "/" + id}
}

func orderKey(orderID string) string {
	return "orders/" + orderID
}
