package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/rs/zerolog/log"
)

const boltBucket = "coinshop"

// BoltKV keeps every key in a single bucket of an embedded bolt file.
type BoltKV struct {
	db *bolt.DB
}

func NewBoltKV(path string) (*BoltKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "NewBoltKV").Str("path", path).Msg("mkdir failed")
		return nil, errors.Join(ErrInternal, err)
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		log.Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "NewBoltKV").Str("path", path).Msg("open failed")
		return nil, errors.Join(ErrInternal, err)
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Join(ErrInternal, err)
	}
	return &BoltKV{db: bdb}, nil
}

func (s *BoltKV) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// bolt values are only valid for the life of the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Get").Str("key", key).Msg("bolt view failed")
		return nil, errors.Join(ErrInternal, err)
	}
	return out, nil
}

func (s *BoltKV) Put(ctx context.Context, entries map[string][]byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		for k, v := range entries {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Put").Msg("bolt update failed")
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *BoltKV) Delete(ctx context.Context, keys ...string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "kv").Str("component", "db").Str("method", "Delete").Msg("bolt update failed")
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *BoltKV) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(boltBucket)) == nil {
			return ErrInternal
		}
		return nil
	})
}

// Close releases the file lock.
func (s *BoltKV) Close() error {
	return s.db.Close()
}
