package graph

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// Transition describes what a node click did to the navigation state
type Transition string

const (
	TransitionNone      Transition = "none"
	TransitionDrillDown Transition = "drillDown"
	TransitionSelect    Transition = "select"
)

// Navigation is the interaction state of one network view: the current
// resolution, the active filter and the selected day-level memory. It is not
// safe for concurrent use; the owning view serialises access.
type Navigation struct {
	resolution types.Resolution
	filter     Filter
	selected   *model.Memory
}

// NewNavigation returns a navigation state at day resolution with no filter
func NewNavigation() *Navigation {
	return &Navigation{
		resolution: types.ResolutionDay,
		filter:     NoFilter(),
	}
}

func (n *Navigation) Resolution() types.Resolution { return n.resolution }
func (n *Navigation) Filter() Filter               { return n.filter }

// Selected returns the memory opened in the detail panel, or nil
func (n *Navigation) Selected() *model.Memory { return n.selected }

// ClickNode applies a click on node. At year and month resolution the view
// drills down exactly one level; at day resolution the node's memory is
// selected. The filter is never touched.
func (n *Navigation) ClickNode(node Node) Transition {
	if node == nil {
		return TransitionNone
	}

	switch n.resolution {
	case types.ResolutionYear, types.ResolutionMonth:
		n.resolution = n.resolution.Finer()
		n.selected = nil
		return TransitionDrillDown
	default:
		day, ok := node.(*DayNode)
		if !ok || day.Memory == nil {
			return TransitionNone
		}
		n.selected = day.Memory
		return TransitionSelect
	}
}

// ClickCanvas applies a click on empty canvas and closes the detail panel
func (n *Navigation) ClickCanvas() {
	n.selected = nil
}

// SetResolution jumps straight to res. The selection is always cleared.
func (n *Navigation) SetResolution(res types.Resolution) error {
	if !res.IsValid() {
		return goerr.Wrap(ErrInvalidResolution, "cannot set resolution", goerr.V("resolution", res))
	}
	n.resolution = res
	n.selected = nil
	return nil
}

// DrillUp moves one level coarser and reports whether the resolution changed
func (n *Navigation) DrillUp() bool {
	next := n.resolution.Coarser()
	if next == n.resolution {
		return false
	}
	n.resolution = next
	n.selected = nil
	return true
}

// SetFilter replaces the active filter
func (n *Navigation) SetFilter(f Filter) {
	if f.Kind == "" {
		f = NoFilter()
	}
	n.filter = f
}

// Reselect points the selection at the refreshed copy of the selected
// memory, or clears it when the memory no longer exists.
func (n *Navigation) Reselect(records []*model.Memory) {
	if n.selected == nil {
		return
	}
	for _, m := range records {
		if m != nil && m.ID == n.selected.ID {
			n.selected = m
			return
		}
	}
	n.selected = nil
}
