package graph

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// GroupKey identifies an aggregation group. At day resolution the key is the
// memory itself; at month and year resolution it is the calendar period.
type GroupKey struct {
	Resolution types.Resolution
	Year       int
	Month      time.Month
	MemoryID   model.MemoryID
}

// NodeID returns the identifier of the node built from this group
func (k GroupKey) NodeID() NodeID {
	switch k.Resolution {
	case types.ResolutionYear:
		return NodeID(fmt.Sprintf("%04d", k.Year))
	case types.ResolutionMonth:
		return NodeID(fmt.Sprintf("%04d-%02d", k.Year, int(k.Month)))
	default:
		return NodeID(k.MemoryID)
	}
}

func compareKeys(a, b GroupKey) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Month, b.Month)
}

// Group is a set of memories collapsed into one node
type Group struct {
	Key     GroupKey
	Members []*model.Memory
}

// KeyFor returns the group key of m at resolution res, with calendar fields
// computed in loc.
func KeyFor(m *model.Memory, res types.Resolution, loc *time.Location) GroupKey {
	date := m.MemoryDate.In(loc)
	switch res {
	case types.ResolutionYear:
		return GroupKey{Resolution: res, Year: date.Year()}
	case types.ResolutionMonth:
		return GroupKey{Resolution: res, Year: date.Year(), Month: date.Month()}
	default:
		return GroupKey{Resolution: types.ResolutionDay, MemoryID: m.ID}
	}
}

// Partition splits records into groups at resolution res. Every well-formed
// record lands in exactly one group. Day groups keep the input order; month
// and year groups are returned in ascending calendar order with members in
// input order. Records without a memory date are left out.
func Partition(records []*model.Memory, res types.Resolution, loc *time.Location) []Group {
	if loc == nil {
		loc = time.UTC
	}

	if res != types.ResolutionMonth && res != types.ResolutionYear {
		groups := make([]Group, 0, len(records))
		for _, m := range records {
			if !isWellFormed(m) {
				continue
			}
			groups = append(groups, Group{
				Key:     KeyFor(m, types.ResolutionDay, loc),
				Members: []*model.Memory{m},
			})
		}
		return groups
	}

	index := make(map[GroupKey]int)
	var groups []Group
	for _, m := range records {
		if !isWellFormed(m) {
			continue
		}
		key := KeyFor(m, res, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Members = append(groups[i].Members, m)
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		return compareKeys(a.Key, b.Key)
	})
	return groups
}

// SortChronologically sorts records ascending by memory date. Records with
// equal dates keep their relative order.
func SortChronologically(records []*model.Memory) {
	slices.SortStableFunc(records, func(a, b *model.Memory) int {
		return dateOf(a).Compare(dateOf(b))
	})
}

func dateOf(m *model.Memory) time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.MemoryDate
}

func isWellFormed(m *model.Memory) bool {
	return m != nil && !m.MemoryDate.IsZero()
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
