package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/service/metrics"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

// ViewID identifies a mounted network view
type ViewID string

func NewViewID() ViewID {
	return ViewID(uuid.New().String())
}

// ViewState is a snapshot of a network view
type ViewState struct {
	ID          ViewID
	Owner       model.UserID
	Resolution  types.Resolution
	Filter      graph.Filter
	Filters     graph.FilterOptions
	Selected    *model.Memory
	Hover       *graph.Tooltip
	Generation  uint64
	Stabilized  bool
	RenderError string
	Graph       *graph.Graph
}

// EventResult reports what an event did to a view
type EventResult struct {
	Ignored    bool
	Transition graph.Transition
	State      ViewState
}

type buildFunc func(ctx context.Context, records []*model.Memory, res types.Resolution, filter graph.Filter) (*graph.Graph, error)

// NetworkView owns the navigation state, the loaded records and the
// renderer of one mounted memory network. Every rebuild tears the previous
// renderer down before creating the next one. All methods are safe for
// concurrent use.
type NetworkView struct {
	mu sync.Mutex

	id      ViewID
	owner   model.UserID
	factory interfaces.RendererFactory
	build   buildFunc
	loc     *time.Location
	opts    interfaces.RenderOptions
	metrics *metrics.Collector

	nav        *graph.Navigation
	records    []*model.Memory
	filters    graph.FilterOptions
	graph      *graph.Graph
	renderer   interfaces.Renderer
	generation uint64
	renderErr  error
	hover      *graph.Tooltip
	stabilized bool
	lastActive time.Time
	closed     bool
}

func (v *NetworkView) ID() ViewID           { return v.id }
func (v *NetworkView) Owner() model.UserID { return v.owner }

// State returns a snapshot of the view
func (v *NetworkView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *NetworkView) stateLocked() ViewState {
	s := ViewState{
		ID:         v.id,
		Owner:      v.owner,
		Resolution: v.nav.Resolution(),
		Filter:     v.nav.Filter(),
		Filters:    v.filters,
		Selected:   v.nav.Selected(),
		Hover:      v.hover,
		Generation: v.generation,
		Stabilized: v.stabilized,
		Graph:      v.graph,
	}
	if v.renderErr != nil {
		s.RenderError = v.renderErr.Error()
	}
	return s
}

// RenderError returns the error of the last renderer construction, if any
func (v *NetworkView) RenderError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderErr
}

// SetResolution is the zoom control: it jumps straight to res
func (v *NetworkView) SetResolution(ctx context.Context, res types.Resolution) (ViewState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkOpenLocked(); err != nil {
		return ViewState{}, err
	}
	if err := v.nav.SetResolution(res); err != nil {
		return ViewState{}, goerr.Wrap(ErrInvalidInput, err.Error(), goerr.V(ViewIDKey, v.id))
	}
	v.touchLocked()
	err := v.rebuildLocked(ctx)
	return v.stateLocked(), err
}

// DrillUp moves one level coarser. At year resolution nothing changes and
// no rebuild happens.
func (v *NetworkView) DrillUp(ctx context.Context) (ViewState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkOpenLocked(); err != nil {
		return ViewState{}, err
	}
	v.touchLocked()
	if !v.nav.DrillUp() {
		return v.stateLocked(), nil
	}
	err := v.rebuildLocked(ctx)
	return v.stateLocked(), err
}

// SetFilter replaces the active filter
func (v *NetworkView) SetFilter(ctx context.Context, f graph.Filter) (ViewState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkOpenLocked(); err != nil {
		return ViewState{}, err
	}
	v.nav.SetFilter(f)
	v.touchLocked()
	err := v.rebuildLocked(ctx)
	return v.stateLocked(), err
}

// Refresh swaps the record set, typically after a memory was created,
// updated or deleted.
func (v *NetworkView) Refresh(ctx context.Context, records []*model.Memory) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkOpenLocked(); err != nil {
		return err
	}
	v.loadLocked(records)
	return v.rebuildLocked(ctx)
}

// HandleEvent applies an event reported by the renderer of generation gen.
// Events of a renderer that has since been replaced are ignored.
func (v *NetworkView) HandleEvent(ctx context.Context, gen uint64, ev graph.Event) (EventResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkOpenLocked(); err != nil {
		return EventResult{}, err
	}
	if gen != v.generation || v.renderer == nil {
		logging.From(ctx).Debug("ignore stale renderer event",
			"view_id", v.id,
			"event", ev.Kind,
			"event_generation", gen,
			"generation", v.generation,
		)
		return EventResult{Ignored: true, Transition: graph.TransitionNone, State: v.stateLocked()}, nil
	}

	v.touchLocked()
	result := EventResult{Transition: graph.TransitionNone}

	switch ev.Kind {
	case graph.EventNodeClick:
		node, ok := v.graph.Node(ev.NodeID)
		if !ok {
			result.Ignored = true
			break
		}
		result.Transition = v.nav.ClickNode(node)
		v.hover = nil
		if result.Transition == graph.TransitionDrillDown {
			if err := v.rebuildLocked(ctx); err != nil {
				result.State = v.stateLocked()
				return result, err
			}
		}

	case graph.EventNodeHover:
		v.hover = nil
		if node, ok := v.graph.Node(ev.NodeID); ok {
			if tip, ok := graph.TooltipFor(node, v.loc); ok {
				v.hover = &tip
			}
		}

	case graph.EventCanvasClick:
		v.nav.ClickCanvas()

	case graph.EventStabilized:
		v.stabilized = true

	default:
		return EventResult{}, goerr.Wrap(ErrInvalidInput, "unknown event kind", goerr.V("kind", ev.Kind))
	}

	result.State = v.stateLocked()
	return result, nil
}

// Close destroys the renderer. A closed view rejects every further call.
func (v *NetworkView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.destroyRendererLocked()
	v.closed = true
}

func (v *NetworkView) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}

func (v *NetworkView) checkOpenLocked() error {
	if v.closed {
		return goerr.Wrap(ErrViewNotFound, "view is closed", goerr.V(ViewIDKey, v.id))
	}
	return nil
}

func (v *NetworkView) touchLocked() {
	v.lastActive = time.Now()
}

func (v *NetworkView) loadLocked(records []*model.Memory) {
	v.records = records
	v.filters = graph.AvailableFilters(records)
	v.nav.Reselect(records)
	v.hover = nil
}

func (v *NetworkView) destroyRendererLocked() {
	if v.renderer != nil {
		v.renderer.Destroy()
		v.renderer = nil
	}
}

// rebuildLocked builds a fresh graph and hands it to a fresh renderer. The
// previous renderer is destroyed first so that its simulation never
// overlaps with the new one.
func (v *NetworkView) rebuildLocked(ctx context.Context) error {
	v.destroyRendererLocked()
	v.generation++
	v.stabilized = false
	v.renderErr = nil

	g, err := v.build(ctx, v.records, v.nav.Resolution(), v.nav.Filter())
	if err != nil {
		return err
	}
	v.graph = g

	gen := v.generation
	// The renderer outlives the request that created it.
	eventCtx := logging.With(context.Background(), logging.From(ctx))
	emit := func(ev graph.Event) {
		if _, err := v.HandleEvent(eventCtx, gen, ev); err != nil {
			logging.From(eventCtx).Warn("renderer event failed", "view_id", v.id, "error", err.Error())
		}
	}

	renderer, err := v.factory(ctx, emit)
	if err != nil {
		v.renderErr = goerr.Wrap(ErrRendererUnavailable, err.Error(), goerr.V(ViewIDKey, v.id))
		v.metrics.RendererFailed()
		return v.renderErr
	}

	if err := renderer.SetGraph(ctx, g, v.opts); err != nil {
		renderer.Destroy()
		v.renderErr = goerr.Wrap(ErrRendererUnavailable, err.Error(), goerr.V(ViewIDKey, v.id))
		v.metrics.RendererFailed()
		return v.renderErr
	}

	v.renderer = renderer
	return nil
}

// OpenViewInput configures a new view. Resolution defaults to day and the
// filter to none.
type OpenViewInput struct {
	Resolution types.Resolution
	Filter     graph.Filter
}

// NetworkUseCase keeps the mounted network views
type NetworkUseCase struct {
	mu    sync.RWMutex
	views map[ViewID]*NetworkView

	memory  *MemoryUseCase
	graphs  *GraphUseCase
	factory interfaces.RendererFactory
	opts    interfaces.RenderOptions
	metrics *metrics.Collector
}

func NewNetworkUseCase(memory *MemoryUseCase, graphs *GraphUseCase, factory interfaces.RendererFactory, collector *metrics.Collector) *NetworkUseCase {
	return &NetworkUseCase{
		views:   make(map[ViewID]*NetworkView),
		memory:  memory,
		graphs:  graphs,
		factory: factory,
		opts:    interfaces.RenderOptions{Physics: true, FitOnStabilize: true},
		metrics: collector,
	}
}

// Open mounts a view for userID. When the renderer cannot be created the
// view is still registered and returned together with the error, so the
// caller can show an empty graph and retry with a zoom or filter change.
func (uc *NetworkUseCase) Open(ctx context.Context, userID model.UserID, input OpenViewInput) (*NetworkView, error) {
	if uc.factory == nil {
		return nil, goerr.Wrap(ErrRendererUnavailable, "no renderer configured")
	}

	records, err := uc.memory.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	nav := graph.NewNavigation()
	if input.Resolution != "" {
		if err := nav.SetResolution(input.Resolution); err != nil {
			return nil, goerr.Wrap(ErrInvalidInput, err.Error())
		}
	}
	nav.SetFilter(input.Filter)

	view := &NetworkView{
		id:         NewViewID(),
		owner:      userID,
		factory:    uc.factory,
		build:      uc.graphs.build,
		loc:        uc.graphs.location,
		opts:       uc.opts,
		metrics:    uc.metrics,
		nav:        nav,
		lastActive: time.Now(),
	}

	view.mu.Lock()
	view.loadLocked(records)
	renderErr := view.rebuildLocked(ctx)
	view.mu.Unlock()

	uc.mu.Lock()
	uc.views[view.id] = view
	uc.mu.Unlock()
	uc.metrics.ViewOpened()

	logging.From(ctx).Info("network view opened",
		"view_id", view.id,
		"user_id", userID,
		"records", len(records),
	)

	return view, renderErr
}

// Get returns the view id of userID
func (uc *NetworkUseCase) Get(ctx context.Context, userID model.UserID, id ViewID) (*NetworkView, error) {
	uc.mu.RLock()
	view, ok := uc.views[id]
	uc.mu.RUnlock()

	if !ok {
		return nil, goerr.Wrap(ErrViewNotFound, "view not found", goerr.V(ViewIDKey, id))
	}
	if view.owner != userID {
		return nil, goerr.Wrap(ErrAccessDenied, "view belongs to another user",
			goerr.V(ViewIDKey, id),
			goerr.V(UserIDKey, userID))
	}
	return view, nil
}

// Close unmounts the view id of userID
func (uc *NetworkUseCase) Close(ctx context.Context, userID model.UserID, id ViewID) error {
	view, err := uc.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	uc.remove(view)
	logging.From(ctx).Info("network view closed", "view_id", id, "user_id", userID)
	return nil
}

func (uc *NetworkUseCase) remove(view *NetworkView) {
	uc.mu.Lock()
	_, ok := uc.views[view.id]
	delete(uc.views, view.id)
	uc.mu.Unlock()

	view.Close()
	if ok {
		uc.metrics.ViewClosed()
	}
}

// RecordsChanged reloads the records of every open view of userID
func (uc *NetworkUseCase) RecordsChanged(ctx context.Context, userID model.UserID) error {
	views := uc.viewsOf(userID)
	if len(views) == 0 {
		return nil
	}

	records, err := uc.memory.ListAll(ctx, userID)
	if err != nil {
		return err
	}

	for _, view := range views {
		// Each view sorts its own copy of the slice while building.
		if err := view.Refresh(ctx, slices.Clone(records)); err != nil {
			logging.From(ctx).Warn("failed to refresh network view",
				"view_id", view.id,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (uc *NetworkUseCase) viewsOf(userID model.UserID) []*NetworkView {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	var views []*NetworkView
	for _, v := range uc.views {
		if v.owner == userID {
			views = append(views, v)
		}
	}
	return views
}

// SweepIdle closes every view without activity for longer than ttl and
// returns how many were closed.
func (uc *NetworkUseCase) SweepIdle(ctx context.Context, ttl time.Duration) int {
	deadline := time.Now().Add(-ttl)

	uc.mu.RLock()
	var idle []*NetworkView
	for _, v := range uc.views {
		if v.idleSince().Before(deadline) {
			idle = append(idle, v)
		}
	}
	uc.mu.RUnlock()

	for _, v := range idle {
		uc.remove(v)
		logging.From(ctx).Info("closed idle network view", "view_id", v.id, "user_id", v.owner)
	}
	return len(idle)
}

// CloseAll unmounts every view
func (uc *NetworkUseCase) CloseAll() {
	uc.mu.RLock()
	views := make([]*NetworkView, 0, len(uc.views))
	for _, v := range uc.views {
		views = append(views, v)
	}
	uc.mu.RUnlock()

	for _, v := range views {
		uc.remove(v)
	}
}

// Count returns the number of open views
func (uc *NetworkUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.views)
}
