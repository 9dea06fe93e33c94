package graph

import (
	"fmt"
	"strings"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// FilterKind selects what a Filter compares against
type FilterKind string

const (
	FilterNone FilterKind = "none"
	FilterMood FilterKind = "mood"
	FilterTag  FilterKind = "tag"
)

// Filter is the single active filter of a network view. The zero value is
// the "none" filter. A filter only changes emphasis, never which nodes exist.
type Filter struct {
	Kind  FilterKind
	Value string
}

// NoFilter returns the filter that matches every memory
func NoFilter() Filter {
	return Filter{Kind: FilterNone}
}

// MoodFilter returns a filter matching memories with the given mood
func MoodFilter(mood types.Mood) Filter {
	return Filter{Kind: FilterMood, Value: mood.String()}
}

// TagFilter returns a filter matching memories carrying tag
func TagFilter(tag string) Filter {
	return Filter{Kind: FilterTag, Value: model.NormalizeTag(tag)}
}

// ParseFilter parses the transport form of a filter: "" or "none",
// "mood:<mood>" and "tag:<tag>".
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == string(FilterNone) {
		return NoFilter(), nil
	}

	kind, value, ok := strings.Cut(s, ":")
	if !ok {
		return Filter{}, fmt.Errorf("invalid filter: %s", s)
	}

	switch FilterKind(strings.ToLower(kind)) {
	case FilterMood:
		mood, err := types.ParseMood(value)
		if err != nil || mood == types.MoodNone {
			return Filter{}, fmt.Errorf("invalid mood filter: %s", s)
		}
		return MoodFilter(mood), nil
	case FilterTag:
		tag := model.NormalizeTag(value)
		if tag == "" {
			return Filter{}, fmt.Errorf("empty tag filter: %s", s)
		}
		return TagFilter(tag), nil
	default:
		return Filter{}, fmt.Errorf("unknown filter kind: %s", kind)
	}
}

// IsNone reports whether f matches everything
func (f Filter) IsNone() bool {
	return f.Kind == "" || f.Kind == FilterNone
}

// String returns the transport form of the filter
func (f Filter) String() string {
	if f.IsNone() {
		return string(FilterNone)
	}
	return string(f.Kind) + ":" + f.Value
}

// Matches reports whether a single memory satisfies the filter
func (f Filter) Matches(m *model.Memory) bool {
	switch f.Kind {
	case FilterMood:
		return m.Mood.String() == f.Value
	case FilterTag:
		return m.HasTag(f.Value)
	default:
		return true
	}
}

// MatchesAny reports whether at least one memory satisfies the filter. The
// none filter matches even an empty set.
func (f Filter) MatchesAny(memories []*model.Memory) bool {
	if f.IsNone() {
		return true
	}
	for _, m := range memories {
		if f.Matches(m) {
			return true
		}
	}
	return false
}
