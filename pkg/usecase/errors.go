package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrMemoryNotFound = errors.New("memory not found")
	ErrViewNotFound   = errors.New("network view not found")

	// Access control errors
	ErrAccessDenied    = errors.New("access denied to memory")
	ErrUnauthenticated = errors.New("authentication required")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")
	ErrTooManyFiles = errors.New("too many files")

	// Rendering errors
	ErrRendererUnavailable = errors.New("renderer unavailable")
)

// Context keys for error values
const (
	MemoryIDKey = "memory_id"
	UserIDKey   = "user_id"
	ViewIDKey   = "view_id"
)
