package graph

import (
	"slices"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// FilterOptions lists the filters that can match something in a record set
type FilterOptions struct {
	Moods []types.Mood `json:"moods"`
	Tags  []string     `json:"tags"`
}

// AvailableFilters returns the moods present in records in canonical order
// and the tags present in records in alphabetical order. It must be
// recomputed whenever the record set changes.
func AvailableFilters(records []*model.Memory) FilterOptions {
	moods := make(map[types.Mood]struct{})
	tags := make(map[string]struct{})
	for _, m := range records {
		if m == nil {
			continue
		}
		if m.Mood != types.MoodNone {
			moods[m.Mood] = struct{}{}
		}
		for _, t := range m.Tags {
			if t = model.NormalizeTag(t); t != "" {
				tags[t] = struct{}{}
			}
		}
	}

	opts := FilterOptions{Moods: []types.Mood{}, Tags: make([]string, 0, len(tags))}
	for _, mood := range types.AllMoods() {
		if _, ok := moods[mood]; ok {
			opts.Moods = append(opts.Moods, mood)
		}
	}
	for t := range tags {
		opts.Tags = append(opts.Tags, t)
	}
	slices.Sort(opts.Tags)
	return opts
}

// Filters returns every selectable filter, starting with none
func (o FilterOptions) Filters() []Filter {
	filters := []Filter{NoFilter()}
	for _, m := range o.Moods {
		filters = append(filters, MoodFilter(m))
	}
	for _, t := range o.Tags {
		filters = append(filters, TagFilter(t))
	}
	return filters
}
