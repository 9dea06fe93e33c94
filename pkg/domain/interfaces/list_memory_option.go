package interfaces

// ListMemoryOption is a functional option for ListByUser
type ListMemoryOption func(*listMemoryConfig)

type listMemoryConfig struct {
	descending bool
	limit      int
	offset     int
}

// WithDescending sorts newest memory date first
func WithDescending() ListMemoryOption {
	return func(c *listMemoryConfig) {
		c.descending = true
	}
}

// WithLimit caps the number of returned memories. Zero means no limit.
func WithLimit(limit int) ListMemoryOption {
	return func(c *listMemoryConfig) {
		c.limit = max(limit, 0)
	}
}

// WithOffset skips the first offset memories of the sorted result
func WithOffset(offset int) ListMemoryOption {
	return func(c *listMemoryConfig) {
		c.offset = max(offset, 0)
	}
}

// BuildListMemoryConfig builds a listMemoryConfig from options
func BuildListMemoryConfig(opts ...ListMemoryOption) *listMemoryConfig {
	cfg := &listMemoryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *listMemoryConfig) Descending() bool { return c.descending }
func (c *listMemoryConfig) Limit() int       { return c.limit }
func (c *listMemoryConfig) Offset() int      { return c.offset }

// Window applies offset and limit to n sorted items and returns the bounds
// of the resulting slice.
func (c *listMemoryConfig) Window(n int) (start, end int) {
	start = min(c.offset, n)
	end = n
	if c.limit > 0 {
		end = min(start+c.limit, n)
	}
	return start, end
}
