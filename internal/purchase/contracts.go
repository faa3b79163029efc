package purchase

import (
	"context"

	"coinshop/kit/broker"
)

// StoreContract define transaction store responsibility.
type StoreContract interface {
	Create(ctx context.Context, p Purchase) (Summary, error)
	Get(ctx context.Context, id string) (Purchase, error)
	GetAll(ctx context.Context) ([]Purchase, error)
	UpdateStatus(ctx context.Context, id string, status Status, errorMessage string) (Summary, error)
	AggregateBalance(ctx context.Context) (int64, error)
	Summary(ctx context.Context) (Summary, error)
	Reset(ctx context.Context) error
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}
