package graph_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

func TestPartition_IsExact(t *testing.T) {
	records := make([]*model.Memory, 0, 40)
	base := time.Date(2022, 11, 20, 8, 0, 0, 0, time.UTC)
	for i := range 40 {
		records = append(records, newMemory(fmt.Sprintf("p%02d", i), base.AddDate(0, 0, i*9), types.MoodNone))
	}

	for _, res := range types.AllResolutions() {
		t.Run(res.String(), func(t *testing.T) {
			groups := graph.Partition(records, res, time.UTC)

			seen := make(map[model.MemoryID]int)
			for _, g := range groups {
				gt.Bool(t, len(g.Members) > 0).True()
				for _, m := range g.Members {
					seen[m.ID]++
					gt.Value(t, graph.KeyFor(m, res, time.UTC)).Equal(g.Key)
				}
			}
			gt.Value(t, len(seen)).Equal(len(records))
			for _, n := range seen {
				gt.Value(t, n).Equal(1)
			}

			for i := 0; i+1 < len(groups); i++ {
				gt.Bool(t, groups[i].Key.NodeID() < groups[i+1].Key.NodeID() || res == types.ResolutionDay).True()
			}
		})
	}
}

func TestPartition_SkipsMalformed(t *testing.T) {
	records := []*model.Memory{
		nil,
		{ID: "undated"},
		newMemory("ok", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), types.MoodNone),
	}
	groups := graph.Partition(records, types.ResolutionMonth, nil)
	gt.Array(t, groups).Length(1)
	gt.Value(t, groups[0].Key.NodeID()).Equal(graph.NodeID("2024-03"))
}

func TestSortChronologically(t *testing.T) {
	records := []*model.Memory{
		newMemory("late", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), types.MoodNone),
		newMemory("first", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), types.MoodNone),
		newMemory("tie-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), types.MoodNone),
		newMemory("tie-2", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), types.MoodNone),
	}
	graph.SortChronologically(records)

	var ids []model.MemoryID
	for _, m := range records {
		ids = append(ids, m.ID)
	}
	gt.Value(t, ids).Equal([]model.MemoryID{"first", "tie-1", "tie-2", "late"})
}
