package graph

import (
	"time"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
)

// LongDateLayout is the date format shown in hover tooltips
const LongDateLayout = "January 2, 2006"

// Tooltip is the transient hover payload of a day node
type Tooltip struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Mood  string `json:"mood,omitempty"`
}

// TooltipFor returns the hover payload of n. Group nodes have no single
// backing memory, so they never produce one.
func TooltipFor(n Node, loc *time.Location) (Tooltip, bool) {
	day, ok := n.(*DayNode)
	if !ok || day.Memory == nil {
		return Tooltip{}, false
	}
	return TooltipForMemory(day.Memory, loc), true
}

// TooltipForMemory returns the hover payload of a single memory
func TooltipForMemory(m *model.Memory, loc *time.Location) Tooltip {
	if loc == nil {
		loc = time.UTC
	}
	title := m.Title
	if title == "" {
		title = "Memory"
	}
	return Tooltip{
		Title: title,
		Date:  m.MemoryDate.In(loc).Format(LongDateLayout),
		Mood:  m.Mood.String(),
	}
}
