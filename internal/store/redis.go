package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix prefixes every key the Redis store writes
const DefaultKeyPrefix = "inspector:"

// RedisStore keeps snapshots as JSON strings indexed by sorted sets
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string

	// Password is the Redis password (empty if no auth)
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix is the prefix for all snapshot keys
	KeyPrefix string
}

// NewRedisStore creates a new Redis snapshot store
func NewRedisStore(config *RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewRedisStoreFromClient(client, config.KeyPrefix)
}

// NewRedisStoreFromClient creates a store from an existing client
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: keyPrefix}
}

func (s *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.prepare(); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	score := float64(snap.CreatedAt.UnixNano())
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(snap.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(""), redis.Z{Score: score, Member: snap.ID})
		pipe.ZAdd(ctx, s.indexKey(snap.Type), redis.Z{Score: score, Member: snap.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) List(ctx context.Context, typeName string) ([]*Snapshot, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(typeName), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange error: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget error: %w", err)
	}

	out := make([]*Snapshot, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry outlived its snapshot
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("json unmarshal error: %w", err)
		}
		out = append(out, &snap)
	}
	sortSnapshots(out)
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.ZRem(ctx, s.indexKey(""), id)
		pipe.ZRem(ctx, s.indexKey(snap.Type), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(id string) string {
	return s.prefix + "snapshot:" + id
}

// indexKey names the sorted set listing a type's snapshots; the empty
// type indexes all of them.
func (s *RedisStore) indexKey(typeName string) string {
	if typeName == "" {
		return s.prefix + "snapshots"
	}
	return s.prefix + "snapshots:" + typeName
}
