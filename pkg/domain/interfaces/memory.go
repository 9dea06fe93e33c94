package interfaces

import (
	"context"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
)

// MemoryRepository defines the interface for Memory data persistence
type MemoryRepository interface {
	// Create stores a new memory. An empty ID is replaced by a new UUID and
	// CreatedAt/UpdatedAt are set by the repository.
	Create(ctx context.Context, memory *model.Memory) (*model.Memory, error)

	// Get retrieves a memory by ID
	Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error)

	// Update replaces an existing memory and refreshes UpdatedAt
	Update(ctx context.Context, memory *model.Memory) (*model.Memory, error)

	// Delete deletes a memory by ID
	Delete(ctx context.Context, memoryID model.MemoryID) error

	// ListByUser returns the memories owned by userID sorted by MemoryDate.
	// Ascending order is the default; memories with equal dates are ordered
	// by CreatedAt and then by ID.
	ListByUser(ctx context.Context, userID model.UserID, opts ...ListMemoryOption) ([]*model.Memory, error)

	// CountByUser returns the number of memories owned by userID
	CountByUser(ctx context.Context, userID model.UserID) (int, error)
}
