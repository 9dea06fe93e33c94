package visnet_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/service/visnet"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []graph.Event
}

func (r *eventRecorder) emit(ev graph.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestRenderer_EmitsStabilized(t *testing.T) {
	rec := &eventRecorder{}
	factory := visnet.NewFactory(visnet.WithSettleDelay(10 * time.Millisecond))

	r, err := factory(context.Background(), rec.emit)
	gt.NoError(t, err).Required()
	t.Cleanup(r.Destroy)

	gt.NoError(t, r.SetGraph(context.Background(), testGraph(t, types.ResolutionDay, graph.NoFilter()),
		interfaces.RenderOptions{Physics: true})).Required()

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	gt.Value(t, rec.count()).Equal(1)
	gt.Value(t, rec.events[0].Kind).Equal(graph.EventStabilized)

	scene := r.(*visnet.Renderer).Scene()
	gt.Value(t, scene).NotNil()
	gt.Array(t, scene.Nodes).Length(3)
}

func TestRenderer_DestroyStopsTimer(t *testing.T) {
	rec := &eventRecorder{}
	factory := visnet.NewFactory(visnet.WithSettleDelay(30 * time.Millisecond))

	r, err := factory(context.Background(), rec.emit)
	gt.NoError(t, err).Required()

	gt.NoError(t, r.SetGraph(context.Background(), testGraph(t, types.ResolutionDay, graph.NoFilter()),
		interfaces.RenderOptions{Physics: true})).Required()
	r.Destroy()
	r.Destroy()

	time.Sleep(80 * time.Millisecond)
	gt.Value(t, rec.count()).Equal(0)

	err = r.SetGraph(context.Background(), testGraph(t, types.ResolutionDay, graph.NoFilter()), interfaces.RenderOptions{})
	gt.Bool(t, errors.Is(err, visnet.ErrDestroyed)).True()
}

func TestFactory_FailsOnClosedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := visnet.NewFactory()(ctx, func(graph.Event) {})
	gt.Bool(t, errors.Is(err, visnet.ErrNoContext)).True()
}
