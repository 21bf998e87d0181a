package transfers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and Redis-free embedding.
type MemoryStore struct {
	mu        sync.RWMutex
	transfers map[string]*Transfer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transfers: make(map[string]*Transfer),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, t *Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.transfers[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transfers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) ListByAccount(ctx context.Context, accountID string) ([]*Transfer, error) {
	return s.list(ctx, func(t *Transfer) bool { return t.AccountID == accountID })
}

func (s *MemoryStore) ListByStatus(ctx context.Context, status Status) ([]*Transfer, error) {
	return s.list(ctx, func(t *Transfer) bool { return t.Status == status })
}

func (s *MemoryStore) list(ctx context.Context, keep func(*Transfer) bool) ([]*Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Transfer
	for _, t := range s.transfers {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, id string, status Status, note string) (*Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Status = status
	t.Note = note
	t.UpdatedAt = time.Now()
	return t.Clone(), nil
}
