package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type KVMock struct {
	mock.Mock
	KV
}

func (m *KVMock) Get(ctx context.Context, key string) ([]byte, error) {
	ret := m.Called(ctx, key)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]byte), ret.Error(1)
}

func (m *KVMock) Put(ctx context.Context, entries map[string][]byte) error {
	ret := m.Called(ctx, entries)
	return ret.Error(0)
}

func (m *KVMock) Delete(ctx context.Context, keys ...string) error {
	ret := m.Called(ctx, keys)
	return ret.Error(0)
}

func (m *KVMock) Ping(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

type LockerMock struct {
	mock.Mock
	Locker
}

func (m *LockerMock) Lock(ctx context.Context, name string) (func(), error) {
	ret := m.Called(ctx, name)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(func()), ret.Error(1)
}
