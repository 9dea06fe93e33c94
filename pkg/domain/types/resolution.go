package types

import (
	"fmt"
	"strings"
)

// Resolution is the aggregation granularity of the memory network. Year is
// the coarsest level and Day the finest.
type Resolution string

const (
	ResolutionYear  Resolution = "year"
	ResolutionMonth Resolution = "month"
	ResolutionDay   Resolution = "day"
)

// AllResolutions returns all resolutions ordered from coarse to fine
func AllResolutions() []Resolution {
	return []Resolution{
		ResolutionYear,
		ResolutionMonth,
		ResolutionDay,
	}
}

// IsValid checks if the resolution is valid
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionYear,
		ResolutionMonth,
		ResolutionDay:
		return true
	default:
		return false
	}
}

// Rank returns the position of r in the coarse-to-fine order, or -1 for an
// invalid resolution.
func (r Resolution) Rank() int {
	switch r {
	case ResolutionYear:
		return 0
	case ResolutionMonth:
		return 1
	case ResolutionDay:
		return 2
	default:
		return -1
	}
}

// Finer returns the next finer resolution. Day is returned unchanged.
func (r Resolution) Finer() Resolution {
	switch r {
	case ResolutionYear:
		return ResolutionMonth
	default:
		return ResolutionDay
	}
}

// Coarser returns the next coarser resolution. Year is returned unchanged.
func (r Resolution) Coarser() Resolution {
	switch r {
	case ResolutionDay:
		return ResolutionMonth
	default:
		return ResolutionYear
	}
}

// String returns the string representation of the resolution
func (r Resolution) String() string {
	return string(r)
}

// ParseResolution parses a resolution. "date" is accepted as an alias of
// "day" for older clients.
func ParseResolution(s string) (Resolution, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "date" {
		return ResolutionDay, nil
	}
	res := Resolution(v)
	if !res.IsValid() {
		return "", fmt.Errorf("invalid resolution: %s", s)
	}
	return res, nil
}
