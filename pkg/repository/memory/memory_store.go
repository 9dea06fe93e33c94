package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[model.MemoryID]*model.Memory
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		entries: make(map[model.MemoryID]*model.Memory),
	}
}

func (r *memoryRepository) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := mem.Clone()
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	if _, exists := r.entries[created.ID]; exists {
		return nil, goerr.New("memory already exists", goerr.V(model.MemoryIDKey, created.ID))
	}

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.entries[created.ID] = created
	return created.Clone(), nil
}

func (r *memoryRepository) Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mem, exists := r.entries[memoryID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, memoryID))
	}

	return mem.Clone(), nil
}

func (r *memoryRepository) Update(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.entries[mem.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, mem.ID))
	}

	updated := mem.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.entries[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *memoryRepository) Delete(ctx context.Context, memoryID model.MemoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[memoryID]; !exists {
		return goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, memoryID))
	}

	delete(r.entries, memoryID)
	return nil
}

func (r *memoryRepository) ListByUser(ctx context.Context, userID model.UserID, opts ...interfaces.ListMemoryOption) ([]*model.Memory, error) {
	cfg := interfaces.BuildListMemoryConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Memory, 0)
	for _, m := range r.entries {
		if m.UserID == userID {
			result = append(result, m.Clone())
		}
	}

	slices.SortFunc(result, model.CompareByMemoryDate)
	if cfg.Descending() {
		slices.Reverse(result)
	}

	start, end := cfg.Window(len(result))
	return result[start:end], nil
}

func (r *memoryRepository) CountByUser(ctx context.Context, userID model.UserID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int
	for _, m := range r.entries {
		if m.UserID == userID {
			count++
		}
	}
	return count, nil
}
