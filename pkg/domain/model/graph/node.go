package graph

import (
	"time"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// NodeID identifies a node within one graph: a memory ID at day resolution,
// "YYYY-MM" at month resolution and "YYYY" at year resolution.
type NodeID string

// Attributes is the visual surface shared by every node variant
type Attributes struct {
	ID          NodeID
	Label       string
	Tooltip     string
	Size        float64
	Color       Color
	BorderColor Color
	BorderWidth float64
	Opacity     float64
	Shadow      bool
	Matches     bool
}

// Node is one of DayNode, MonthNode or YearNode
type Node interface {
	Attrs() Attributes
	Resolution() types.Resolution
	isNode()
}

// DayNode is a single memory
type DayNode struct {
	Attributes
	Memory *model.Memory
}

// MonthNode is every memory of one calendar month
type MonthNode struct {
	Attributes
	Year    int
	Month   time.Month
	Members []*model.Memory
}

// YearNode is every memory of one calendar year
type YearNode struct {
	Attributes
	Year    int
	Members []*model.Memory
}

func (n *DayNode) Attrs() Attributes              { return n.Attributes }
func (n *DayNode) Resolution() types.Resolution   { return types.ResolutionDay }
func (*DayNode) isNode()                          {}
func (n *MonthNode) Attrs() Attributes            { return n.Attributes }
func (n *MonthNode) Resolution() types.Resolution { return types.ResolutionMonth }
func (*MonthNode) isNode()                        {}
func (n *YearNode) Attrs() Attributes             { return n.Attributes }
func (n *YearNode) Resolution() types.Resolution  { return types.ResolutionYear }
func (*YearNode) isNode()                         {}

// MemberCount returns how many memories a node stands for
func MemberCount(n Node) int {
	switch v := n.(type) {
	case *DayNode:
		return 1
	case *MonthNode:
		return len(v.Members)
	case *YearNode:
		return len(v.Members)
	default:
		return 0
	}
}

// Members returns the memories a node stands for
func Members(n Node) []*model.Memory {
	switch v := n.(type) {
	case *DayNode:
		return []*model.Memory{v.Memory}
	case *MonthNode:
		return v.Members
	case *YearNode:
		return v.Members
	default:
		return nil
	}
}

// EdgeKind distinguishes chronological links from same-day links
type EdgeKind string

const (
	EdgeChronological EdgeKind = "chronological"
	EdgeSameDay       EdgeKind = "sameDay"
)

// Edge connects two nodes of the same graph
type Edge struct {
	From       NodeID
	To         NodeID
	Kind       EdgeKind
	Color      Color
	Opacity    float64
	Width      float64
	Dashed     bool
	Emphasized bool
}

// ID returns an identifier unique within one graph. A chronological and a
// same-day edge may join the same pair, so the kind is part of the ID.
func (e Edge) ID() string {
	return string(e.Kind) + ":" + string(e.From) + "->" + string(e.To)
}
