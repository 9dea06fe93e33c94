package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

var ErrInvalidResolution = goerr.New("invalid resolution")

const (
	dayBorderWidth   = 2.0
	monthBorderWidth = 3.0
	yearBorderWidth  = 4.0
)

// Graph is the renderer-ready description of a memory set at one resolution
type Graph struct {
	Resolution types.Resolution
	Filter     Filter
	Nodes      []Node
	Edges      []Edge

	// Skipped counts records left out because they were nil or had no
	// memory date.
	Skipped int
}

// Node returns the node with the given ID
func (g *Graph) Node(id NodeID) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Attrs().ID == id {
			return n, true
		}
	}
	return nil, false
}

// CountEdges returns the number of edges of the given kind
func (g *Graph) CountEdges(kind EdgeKind) int {
	var count int
	for _, e := range g.Edges {
		if e.Kind == kind {
			count++
		}
	}
	return count
}

type buildOptions struct {
	palette  Palette
	location *time.Location
}

// BuildOption configures Build
type BuildOption func(*buildOptions)

// WithPalette replaces the default color palette
func WithPalette(p Palette) BuildOption {
	return func(o *buildOptions) {
		o.palette = p
	}
}

// WithLocation sets the time zone used for calendar grouping and labels
func WithLocation(loc *time.Location) BuildOption {
	return func(o *buildOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// Build transforms records into a graph at resolution res. records must be
// sorted ascending by memory date; the filter only decides emphasis and
// never removes nodes. Malformed records are skipped and logged.
func Build(ctx context.Context, records []*model.Memory, res types.Resolution, filter Filter, opts ...BuildOption) (*Graph, error) {
	if !res.IsValid() {
		return nil, goerr.Wrap(ErrInvalidResolution, "cannot build graph", goerr.V("resolution", res))
	}

	o := buildOptions{palette: DefaultPalette(), location: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}

	if filter.Kind == "" {
		filter = NoFilter()
	}

	g := &Graph{
		Resolution: res,
		Filter:     filter,
		Nodes:      []Node{},
		Edges:      []Edge{},
	}

	valid := make([]*model.Memory, 0, len(records))
	for i, m := range records {
		if isWellFormed(m) {
			valid = append(valid, m)
			continue
		}
		g.Skipped++
		var id model.MemoryID
		if m != nil {
			id = m.ID
		}
		logging.From(ctx).Warn("skip malformed memory record",
			"index", i,
			"memory_id", id,
			"resolution", res,
		)
	}

	switch res {
	case types.ResolutionDay:
		buildDayGraph(g, valid, &o)
	default:
		buildGroupGraph(g, valid, &o)
	}

	return g, nil
}

func buildDayGraph(g *Graph, records []*model.Memory, o *buildOptions) {
	matched := make(map[NodeID]bool, len(records))

	for _, m := range records {
		node := &DayNode{
			Attributes: Attributes{
				ID:          NodeID(m.ID),
				Label:       dayLabel(m, o.location),
				Tooltip:     dayTooltip(m, o.location),
				Size:        DaySize(!m.IsTextOnly()),
				Color:       o.palette.MoodColor(m.Mood),
				BorderColor: o.palette.MoodColor(m.Mood),
				BorderWidth: dayBorderWidth,
			},
			Memory: m,
		}
		node.Matches = g.Filter.Matches(m)
		applyEmphasis(&node.Attributes, types.ResolutionDay)
		matched[node.ID] = node.Matches
		g.Nodes = append(g.Nodes, node)
	}

	for i := 0; i+1 < len(records); i++ {
		g.Edges = append(g.Edges, newEdge(types.ResolutionDay, EdgeChronological,
			NodeID(records[i].ID), NodeID(records[i+1].ID), matched))
	}

	// Records sharing a calendar day are chained pairwise, in list order.
	var order []string
	byDay := make(map[string][]*model.Memory)
	for _, m := range records {
		key := dayKey(m.MemoryDate, o.location)
		if _, ok := byDay[key]; !ok {
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], m)
	}
	for _, key := range order {
		same := byDay[key]
		for i := 0; i+1 < len(same); i++ {
			g.Edges = append(g.Edges, newEdge(types.ResolutionDay, EdgeSameDay,
				NodeID(same[i].ID), NodeID(same[i+1].ID), matched))
		}
	}
}

func buildGroupGraph(g *Graph, records []*model.Memory, o *buildOptions) {
	groups := Partition(records, g.Resolution, o.location)
	matched := make(map[NodeID]bool, len(groups))
	ids := make([]NodeID, 0, len(groups))

	for _, grp := range groups {
		attrs := Attributes{
			ID:      grp.Key.NodeID(),
			Size:    GroupSize(g.Resolution, len(grp.Members)),
			Color:   o.palette.Neutral,
			Matches: g.Filter.MatchesAny(grp.Members),
		}

		var node Node
		switch g.Resolution {
		case types.ResolutionYear:
			attrs.Label = fmt.Sprintf("%d\n(%d memories)", grp.Key.Year, len(grp.Members))
			attrs.Tooltip = fmt.Sprintf("%d\n%s", grp.Key.Year, countMemories(len(grp.Members)))
			attrs.BorderColor = o.palette.YearBorder
			attrs.BorderWidth = yearBorderWidth
			applyEmphasis(&attrs, g.Resolution)
			node = &YearNode{Attributes: attrs, Year: grp.Key.Year, Members: grp.Members}
		default:
			period := fmt.Sprintf("%s %d", grp.Key.Month, grp.Key.Year)
			attrs.Label = fmt.Sprintf("%s\n(%d)", period, len(grp.Members))
			attrs.Tooltip = fmt.Sprintf("%s\n%s", period, countMemories(len(grp.Members)))
			attrs.BorderColor = o.palette.MonthBorder
			attrs.BorderWidth = monthBorderWidth
			applyEmphasis(&attrs, g.Resolution)
			node = &MonthNode{Attributes: attrs, Year: grp.Key.Year, Month: grp.Key.Month, Members: grp.Members}
		}

		matched[attrs.ID] = attrs.Matches
		ids = append(ids, attrs.ID)
		g.Nodes = append(g.Nodes, node)
	}

	for i := 0; i+1 < len(ids); i++ {
		g.Edges = append(g.Edges, newEdge(g.Resolution, EdgeChronological, ids[i], ids[i+1], matched))
	}
}

func applyEmphasis(attrs *Attributes, res types.Resolution) {
	if attrs.Matches {
		attrs.Opacity = FullOpacity
		attrs.Shadow = true
		return
	}
	attrs.Opacity = dimmedOpacity(res)
	attrs.BorderWidth = 0
	attrs.Shadow = false
}

func newEdge(res types.Resolution, kind EdgeKind, from, to NodeID, matched map[NodeID]bool) Edge {
	style := baseEdgeStyle(res, kind)
	e := Edge{
		From:       from,
		To:         to,
		Kind:       kind,
		Color:      style.color,
		Opacity:    style.opacity,
		Width:      style.width,
		Dashed:     style.dashed,
		Emphasized: matched[from] && matched[to],
	}
	if !e.Emphasized {
		e.Opacity = style.opacity * DimmedEdgeOpacityFactor
		e.Width = DimmedEdgeWidth
	}
	return e
}

func dayLabel(m *model.Memory, loc *time.Location) string {
	if m.Title != "" {
		return m.Title
	}
	return m.MemoryDate.In(loc).Format("Jan 2")
}

func dayTooltip(m *model.Memory, loc *time.Location) string {
	t := TooltipForMemory(m, loc)
	s := t.Title + "\n" + t.Date
	if t.Mood != "" {
		s += "\nMood: " + t.Mood
	}
	return s
}

func countMemories(n int) string {
	if n == 1 {
		return "1 memory"
	}
	return fmt.Sprintf("%d memories", n)
}
