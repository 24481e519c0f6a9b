package session

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session under a single key so several terminals share one sign-in.
type RedisStore struct {
	redis *redis.Client
	key   string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{redis: client, key: key}
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func (s *RedisStore) Load(ctx context.Context) (Data, error) {
	raw, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Data{}, ErrNotFound
		}
		return Data{}, errors.Wrap(err, "redis get")
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, errors.Wrap(ErrCorrupted, err.Error())
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, data Data) error {
	b, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := s.redis.Set(ctx, s.key, b, 0).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}
