package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists accounts as JSON documents keyed by id, with a set of
// all ids per store for scans. Partial updates run under WATCH so concurrent
// writers to the same account retry instead of clobbering each other.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(redisClient redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "bba"
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":acct:" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":acct:all"
}

func (s *RedisStore) Insert(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(a.ID), data, 0)
		pipe.SAdd(ctx, s.indexKey(), a.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Account, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var a Account
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *RedisStore) List(ctx context.Context, role Role) ([]*Account, error) {
	ids, err := s.redis.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out := make([]*Account, 0, len(ids))
	for _, id := range ids {
		a, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Deleted between SMEMBERS and GET; the index entry is
				// stale, not an error.
				continue
			}
			return nil, err
		}
		if role != "" && a.Role != role {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, patch Patch) (*Account, error) {
	return s.mutate(ctx, id, func(a *Account) {
		patch.apply(a, time.Now())
	})
}

func (s *RedisStore) RecordLoginFailure(
	ctx context.Context,
	id string,
	maxAttempts int,
	lockFor time.Duration,
	now time.Time,
) (*Account, error) {
	return s.mutate(ctx, id, func(a *Account) {
		applyLoginFailure(a, maxAttempts, lockFor, now)
	})
}

// mutate applies fn to the stored account under WATCH, retrying on
// concurrent modification.
func (s *RedisStore) mutate(ctx context.Context, id string, fn func(*Account)) (*Account, error) {
	const maxRetries = 4
	key := s.key(id)

	for i := 0; i < maxRetries; i++ {
		var updated *Account

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			var a Account
			if err := json.Unmarshal(data, &a); err != nil {
				return err
			}

			fn(&a)

			encoded, err := json.Marshal(&a)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			})
			if err != nil {
				return err
			}

			updated = &a
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: account update contention", ErrUnavailable)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.redis.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := s.redis.SRem(ctx, s.indexKey(), id).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
