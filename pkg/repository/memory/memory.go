package memory

import (
	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
)

// Repository is an alias for Memory
type Repository = Memory

// Memory is an in-process repository. It is used for development and tests
// and loses everything on restart.
type Memory struct {
	memory *memoryRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		memory: newMemoryRepository(),
	}
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memory
}

func (m *Memory) Close() error {
	return nil
}
