package visnet

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

var (
	ErrDestroyed = goerr.New("renderer is destroyed")
	ErrNoContext = goerr.New("render context is closed")
)

// DefaultSettleDelay approximates how long the browser-side simulation
// needs for 150 stabilization iterations.
const DefaultSettleDelay = 1500 * time.Millisecond

// Renderer keeps the scene served to the browser and simulates the layout
// convergence of vis-network with a settle timer that reports stabilized.
type Renderer struct {
	mu          sync.Mutex
	scene       *Scene
	timer       *time.Timer
	settleDelay time.Duration
	emit        func(graph.Event)
	destroyed   bool
}

var _ interfaces.Renderer = &Renderer{}

type Option func(*Renderer)

// WithSettleDelay sets the delay between SetGraph and the stabilized event
func WithSettleDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.settleDelay = d
	}
}

// NewFactory returns a factory creating renderers with the given options
func NewFactory(opts ...Option) interfaces.RendererFactory {
	return func(ctx context.Context, emit func(graph.Event)) (interfaces.Renderer, error) {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(ErrNoContext, "cannot create renderer", goerr.V("cause", err.Error()))
		}
		if emit == nil {
			return nil, goerr.New("event callback is required")
		}

		r := &Renderer{
			settleDelay: DefaultSettleDelay,
			emit:        emit,
		}
		for _, opt := range opts {
			opt(r)
		}
		return r, nil
	}
}

// SetGraph replaces the scene and restarts the settle timer
func (r *Renderer) SetGraph(ctx context.Context, g *graph.Graph, opts interfaces.RenderOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return goerr.Wrap(ErrDestroyed, "cannot set graph")
	}

	r.scene = NewScene(g, opts)
	if r.timer != nil {
		r.timer.Stop()
	}

	delay := r.settleDelay
	if !opts.Physics {
		delay = 0
	}
	r.timer = time.AfterFunc(delay, r.stabilized)

	logging.From(ctx).Debug("scene updated",
		"resolution", g.Resolution,
		"nodes", len(r.scene.Nodes),
		"edges", len(r.scene.Edges),
	)
	return nil
}

func (r *Renderer) stabilized() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	emit := r.emit
	r.mu.Unlock()

	emit(graph.Event{Kind: graph.EventStabilized})
}

// Scene returns the current scene, or nil before the first SetGraph
func (r *Renderer) Scene() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

// Destroy stops the settle timer. No event is emitted afterwards.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.destroyed = true
	r.scene = nil
}
