// Package redis keeps pagination tokens in Redis, letting key expiry do most
// of the cleanup.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"webinar_sync/internal/domain"
)

const keyPrefix = "webinar_sync:pagination:"

type PaginationTokenStore struct {
	client goredis.UniversalClient
}

func NewPaginationTokenStore(client goredis.UniversalClient) *PaginationTokenStore {
	return &PaginationTokenStore{client: client}
}

func key(token string) string {
	return keyPrefix + token
}

func (s *PaginationTokenStore) Save(ctx context.Context, t domain.PaginationToken) error {
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save pagination token: already expired at %s", t.ExpiresAt)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal pagination token: %w", err)
	}
	return s.client.Set(ctx, key(t.Token), data, ttl).Err()
}

func (s *PaginationTokenStore) Get(ctx context.Context, token string) (*domain.PaginationToken, error) {
	data, err := s.client.Get(ctx, key(token)).Bytes()
	if err != nil {
		return nil, notFound(err)
	}
	return unmarshal(data)
}

// Touch rewrites the record with a new access time and keeps the key's TTL.
func (s *PaginationTokenStore) Touch(ctx context.Context, token string, at time.Time) error {
	t, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	t.LastAccessedAt = at

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal pagination token: %w", err)
	}
	ok, err := s.client.SetArgs(ctx, key(token), data, goredis.SetArgs{Mode: "XX", KeepTTL: true}).Result()
	if errors.Is(err, goredis.Nil) || (err == nil && ok != "OK") {
		return domain.ErrNotFound
	}
	return err
}

// Take relies on GETDEL so only one caller ever receives the record.
func (s *PaginationTokenStore) Take(ctx context.Context, token string) (*domain.PaginationToken, error) {
	data, err := s.client.GetDel(ctx, key(token)).Bytes()
	if err != nil {
		return nil, notFound(err)
	}
	return unmarshal(data)
}

func (s *PaginationTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, key(token)).Err()
}

// DeleteExpired catches records whose stored expiry passed before Redis
// evicted the key, e.g. when clocks drift between writers.
func (s *PaginationTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		data, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		t, err := unmarshal(data)
		if err != nil || t.Expired(now) {
			n, err := s.client.Del(ctx, k).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
	}
	return deleted, iter.Err()
}

func notFound(err error) error {
	if errors.Is(err, goredis.Nil) {
		return domain.ErrNotFound
	}
	return err
}

func unmarshal(data []byte) (*domain.PaginationToken, error) {
	var t domain.PaginationToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal pagination token: %w", err)
	}
	return &t, nil
}
