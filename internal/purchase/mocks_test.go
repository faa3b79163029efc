package purchase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coinshop/kit/broker"
)

type PublisherMock struct {
	mock.Mock
	PublisherContract
}

func (m *PublisherMock) Publish(ctx context.Context, evt broker.Event) []error {
	ret := m.Called(ctx, evt)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]error)
}
