package transfers

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

// RedisStore persists transfer records as JSON documents keyed by id, with
// per-account and per-status sets for listing. Status moves run under WATCH
// so two employees deciding the same transfer cannot race.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(redisClient redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "bbt"
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":txn:" + id
}

func (s *RedisStore) accountKey(accountID string) string {
	return s.prefix + ":txn:acct:" + accountID
}

func (s *RedisStore) statusKey(status Status) string {
	return s.prefix + ":txn:status:" + string(status)
}

func (s *RedisStore) Insert(ctx context.Context, t *Transfer) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(t.ID), data, 0)
		pipe.SAdd(ctx, s.accountKey(t.AccountID), t.ID)
		pipe.SAdd(ctx, s.statusKey(t.Status), t.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Transfer, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var t Transfer
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *RedisStore) ListByAccount(ctx context.Context, accountID string) ([]*Transfer, error) {
	return s.listSet(ctx, s.accountKey(accountID), nil)
}

func (s *RedisStore) ListByStatus(ctx context.Context, status Status) ([]*Transfer, error) {
	// Membership in a status set can lag a concurrent SetStatus; filter on
	// the document's own state so callers never see stale rows.
	return s.listSet(ctx, s.statusKey(status), func(t *Transfer) bool {
		return t.Status == status
	})
}

func (s *RedisStore) listSet(ctx context.Context, setKey string, keep func(*Transfer) bool) ([]*Transfer, error) {
	ids, err := s.redis.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out []*Transfer
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if keep != nil && !keep(t) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *RedisStore) SetStatus(ctx context.Context, id string, status Status, note string) (*Transfer, error) {
	const maxRetries = 4
	key := s.key(id)

	for i := 0; i < maxRetries; i++ {
		var updated *Transfer

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			var t Transfer
			if err := json.Unmarshal(data, &t); err != nil {
				return err
			}

			previous := t.Status
			t.Status = status
			t.Note = note
			t.UpdatedAt = time.Now()

			encoded, err := json.Marshal(&t)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				pipe.SRem(ctx, s.statusKey(previous), t.ID)
				pipe.SAdd(ctx, s.statusKey(status), t.ID)
				return nil
			})
			if err != nil {
				return err
			}

			updated = &t
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

	return nil, fmt.Errorf("%w: transfer update contention", ErrUnavailable)
}
