package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisKV shares the store between several instances of the service.
type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(addr, password string, database int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
}

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Get").Str("key", key).Msg("redis GET failed")
		return nil, errors.Join(ErrInternal, err)
	}
	return v, nil
}

func (s *RedisKV) Put(ctx context.Context, entries map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range entries {
			p.Set(ctx, s.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Put").Msg("redis MULTI failed")
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Delete").Msg("redis DEL failed")
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *RedisKV) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisKV) Close() error {
	return s.client.Close()
}

const (
	DefaultLockTTL   = 10 * time.Second
	defaultLockRetry = 25 * time.Millisecond
)

// releaseLock deletes the lock only while it still carries our token, so an
// expired holder cannot release somebody else's lock.
var releaseLock = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX lock with a short expiry so that a crashed holder
// cannot wedge the store.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl, retry: defaultLockRetry}
}

func (l *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	key := l.prefix + "lock:" + name
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Lock").Str("lock", name).Msg("redis SETNX failed")
			return nil, errors.Join(ErrInternal, err)
		}
		if ok {
			return func() {
				if err := releaseLock.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
					log.Ctx(ctx).Warn().Err(err).Str("lock", name).Msg("redis lock release failed")
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConflict, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}
