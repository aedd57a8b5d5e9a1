package deduplication

import (
	"context"
	"sync"
)

// Repository is the storage behind the seen set. Insert is an atomic
// check-and-insert; Trim keeps the keep most recently inserted keys.
type Repository interface {
	Insert(ctx context.Context, key string) (bool, error)
	Size(ctx context.Context) (int, error)
	Trim(ctx context.Context, keep int) (int, error)
}

type MemoryRepository struct {
	mu    sync.Mutex
	order []string
	keys  map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		keys: make(map[string]struct{}),
	}
}

func (r *MemoryRepository) Insert(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[key]; ok {
		return false, nil
	}
	r.keys[key] = struct{}{}
	r.order = append(r.order, key)
	return true, nil
}

func (r *MemoryRepository) Size(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.order), nil
}

func (r *MemoryRepository) Trim(_ context.Context, keep int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	excess := len(r.order) - keep
	if excess <= 0 {
		return 0, nil
	}

	for _, key := range r.order[:excess] {
		delete(r.keys, key)
	}
	kept := make([]string, keep)
	copy(kept, r.order[excess:])
	r.order = kept

	return excess, nil
}

// Contains reports whether key is in the seen set without marking it.
func (r *MemoryRepository) Contains(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.keys[key]
	return ok
}
