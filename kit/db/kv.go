package db

import (
	"context"
)

// KV is the persistence contract of the purchase store: a handful of fixed
// keys holding opaque values.
type KV interface {
	// Get returns ErrNotFound when the key holds no value.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes every entry or none of them.
	Put(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Locker serialises read-modify-write cycles on a named resource. The
// returned func releases the lock and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, name string) (func(), error)
}
