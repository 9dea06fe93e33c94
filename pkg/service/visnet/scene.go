package visnet

import (
	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
)

// Scene is a vis-network compatible description of a graph: the content of
// the nodes and edges DataSets plus the network options.
type Scene struct {
	Nodes   []SceneNode `json:"nodes"`
	Edges   []SceneEdge `json:"edges"`
	Options Options     `json:"options"`
}

type SceneNode struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Title       string    `json:"title,omitempty"`
	Shape       string    `json:"shape"`
	Image       string    `json:"image,omitempty"`
	Size        float64   `json:"size"`
	Color       NodeColor `json:"color"`
	BorderWidth float64   `json:"borderWidth"`
	Opacity     float64   `json:"opacity"`
	Shadow      bool      `json:"shadow"`
	Font        Font      `json:"font"`
	Group       string    `json:"group"`
	MemoryID    string    `json:"memoryId,omitempty"`
	Matches     bool      `json:"matches"`
}

type NodeColor struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

type Font struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
	Multi bool   `json:"multi,omitempty"`
}

type SceneEdge struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Color  EdgeColor `json:"color"`
	Width  float64   `json:"width"`
	Dashes bool      `json:"dashes"`
	Smooth Smooth    `json:"smooth"`
	Kind   string    `json:"kind"`
}

type EdgeColor struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

type Smooth struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
}

type Options struct {
	Physics     Physics     `json:"physics"`
	Interaction Interaction `json:"interaction"`
}

type Physics struct {
	Enabled          bool             `json:"enabled"`
	Solver           string           `json:"solver"`
	ForceAtlas2Based ForceAtlas2Based `json:"forceAtlas2Based"`
	Stabilization    Stabilization    `json:"stabilization"`
}

type ForceAtlas2Based struct {
	GravitationalConstant float64 `json:"gravitationalConstant"`
	CentralGravity        float64 `json:"centralGravity"`
	SpringLength          float64 `json:"springLength"`
	SpringConstant        float64 `json:"springConstant"`
	Damping               float64 `json:"damping"`
}

type Stabilization struct {
	Iterations int  `json:"iterations"`
	Fit        bool `json:"fit"`
}

type Interaction struct {
	Hover        bool `json:"hover"`
	TooltipDelay int  `json:"tooltipDelay"`
}

// DefaultOptions returns the force-atlas layout used by the memory network
func DefaultOptions(opts interfaces.RenderOptions) Options {
	return Options{
		Physics: Physics{
			Enabled: opts.Physics,
			Solver:  "forceAtlas2Based",
			ForceAtlas2Based: ForceAtlas2Based{
				GravitationalConstant: -40,
				CentralGravity:        0.008,
				SpringLength:          120,
				SpringConstant:        0.04,
				Damping:               0.5,
			},
			Stabilization: Stabilization{
				Iterations: 150,
				Fit:        opts.FitOnStabilize,
			},
		},
		Interaction: Interaction{
			Hover:        true,
			TooltipDelay: 200,
		},
	}
}

const labelColor = "#4A4540"

// NewScene converts g into a vis-network scene
func NewScene(g *graph.Graph, opts interfaces.RenderOptions) *Scene {
	scene := &Scene{
		Nodes:   make([]SceneNode, 0, len(g.Nodes)),
		Edges:   make([]SceneEdge, 0, len(g.Edges)),
		Options: DefaultOptions(opts),
	}

	for _, n := range g.Nodes {
		scene.Nodes = append(scene.Nodes, toSceneNode(n))
	}
	for _, e := range g.Edges {
		scene.Edges = append(scene.Edges, SceneEdge{
			ID:   e.ID(),
			From: string(e.From),
			To:   string(e.To),
			Color: EdgeColor{
				Color:   string(e.Color),
				Opacity: e.Opacity,
			},
			Width:  e.Width,
			Dashes: e.Dashed,
			Smooth: Smooth{Enabled: true, Type: "continuous"},
			Kind:   string(e.Kind),
		})
	}

	return scene
}

func toSceneNode(n graph.Node) SceneNode {
	attrs := n.Attrs()
	sn := SceneNode{
		ID:    string(attrs.ID),
		Label: attrs.Label,
		Title: attrs.Tooltip,
		Shape: "dot",
		Size:  attrs.Size,
		Color: NodeColor{
			Background: string(attrs.Color),
			Border:     string(attrs.BorderColor),
		},
		BorderWidth: attrs.BorderWidth,
		Opacity:     attrs.Opacity,
		Shadow:      attrs.Shadow,
		Font:        Font{Size: 12, Color: labelColor},
		Group:       n.Resolution().String(),
		Matches:     attrs.Matches,
	}

	switch v := n.(type) {
	case *graph.DayNode:
		sn.MemoryID = string(v.Memory.ID)
		if !v.Memory.IsTextOnly() {
			sn.Shape = "circularImage"
			sn.Image = v.Memory.Photos[0]
		}
	case *graph.MonthNode:
		sn.Font = Font{Size: 14, Color: labelColor, Multi: true}
	case *graph.YearNode:
		sn.Font = Font{Size: 16, Color: labelColor, Multi: true}
	}

	return sn
}
