package model

// Context keys for error values
const (
	MemoryIDKey = "memory_id"
	UserIDKey   = "user_id"
)
