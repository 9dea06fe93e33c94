package model

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 5000
	MaxPhotos        = 10
)

// MemoryID is a UUID-based identifier for Memory
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// UserID identifies the owner of a memory
type UserID string

// Location is the place a memory happened
type Location struct {
	Lat float64
	Lng float64
}

// Memory is a single journal entry. MemoryDate is the date of the
// remembered event, not the time the entry was written.
type Memory struct {
	ID            MemoryID
	UserID        UserID
	Title         string
	Content       string
	MemoryDate    time.Time
	Mood          types.Mood
	Tags          []string
	Photos        []string // ordered photo references; the first one is the cover
	AudioURL      string
	Location      *Location
	Collaborators []UserID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTextOnly reports whether the memory has no photo attached
func (m *Memory) IsTextOnly() bool {
	return len(m.Photos) == 0
}

// HasTag reports whether the memory carries tag. Tags are compared after
// normalization.
func (m *Memory) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false
	}
	for _, t := range m.Tags {
		if NormalizeTag(t) == tag {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether userID created the memory
func (m *Memory) IsOwnedBy(userID UserID) bool {
	return m.UserID == userID
}

// Validate checks domain invariants that hold regardless of the input channel
func (m *Memory) Validate() error {
	if m.UserID == "" {
		return goerr.New("memory owner is required", goerr.V(MemoryIDKey, m.ID))
	}
	if m.MemoryDate.IsZero() {
		return goerr.New("memory date is required", goerr.V(MemoryIDKey, m.ID))
	}
	if len([]rune(m.Title)) > MaxTitleLength {
		return goerr.New("title is too long", goerr.V(MemoryIDKey, m.ID), goerr.V("max", MaxTitleLength))
	}
	if len([]rune(m.Content)) > MaxContentLength {
		return goerr.New("content is too long", goerr.V(MemoryIDKey, m.ID), goerr.V("max", MaxContentLength))
	}
	if !m.Mood.IsValidOrNone() {
		return goerr.New("invalid mood", goerr.V(MemoryIDKey, m.ID), goerr.V("mood", m.Mood))
	}
	if len(m.Photos) > MaxPhotos {
		return goerr.New("too many photos", goerr.V(MemoryIDKey, m.ID), goerr.V("count", len(m.Photos)))
	}
	if m.Location != nil {
		if m.Location.Lat < -90 || m.Location.Lat > 90 || m.Location.Lng < -180 || m.Location.Lng > 180 {
			return goerr.New("location is out of range",
				goerr.V(MemoryIDKey, m.ID),
				goerr.V("lat", m.Location.Lat),
				goerr.V("lng", m.Location.Lng))
		}
	}
	return nil
}

// Clone returns a deep copy of the memory
func (m *Memory) Clone() *Memory {
	copied := *m
	copied.Tags = slices.Clone(m.Tags)
	copied.Photos = slices.Clone(m.Photos)
	copied.Collaborators = slices.Clone(m.Collaborators)
	if m.Location != nil {
		loc := *m.Location
		copied.Location = &loc
	}
	return &copied
}

// CompareByMemoryDate orders memories by MemoryDate, then CreatedAt, then ID
func CompareByMemoryDate(a, b *Memory) int {
	if c := a.MemoryDate.Compare(b.MemoryDate); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// NormalizeTag trims and lowercases a tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, drops empty ones and removes
// duplicates while keeping the first occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
