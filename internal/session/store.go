package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CookieStore keeps the whole session inside the signed cookie.
type CookieStore struct{}

func (CookieStore) Load(_ context.Context, claims *Claims) (*Data, error) {
	return claims.Data, nil
}

func (CookieStore) Save(_ context.Context, _ string, d *Data, _ time.Duration) (*Claims, error) {
	return &Claims{Data: d}, nil
}

func (CookieStore) Delete(context.Context, string) error { return nil }

// RedisStore keeps session data server-side; the cookie only carries the signed session id.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: "session:"}
}

func (s *RedisStore) Load(ctx context.Context, claims *Claims) (*Data, error) {
	raw, err := s.Client.Get(ctx, s.Prefix+claims.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, err
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return &Data{}, nil
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, d *Data, ttl time.Duration) (*Claims, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if err := s.Client.Set(ctx, s.Prefix+id, raw, ttl).Err(); err != nil {
		return nil, err
	}
	return &Claims{}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, s.Prefix+id).Err()
}
