package interfaces

import (
	"context"

	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
)

// RenderOptions configures how a renderer lays out a graph
type RenderOptions struct {
	// Physics enables the force-directed layout simulation
	Physics bool
	// FitOnStabilize frames the whole graph once the layout settles
	FitOnStabilize bool
}

// Renderer draws a graph and reports interaction events through the emit
// callback given to its factory. A renderer is owned by exactly one view.
type Renderer interface {
	SetGraph(ctx context.Context, g *graph.Graph, opts RenderOptions) error

	// Destroy halts every timer and simulation of the renderer. It is safe
	// to call more than once.
	Destroy()
}

// RendererFactory creates a renderer that reports events through emit
type RendererFactory func(ctx context.Context, emit func(graph.Event)) (Renderer, error)
