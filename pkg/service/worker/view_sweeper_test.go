package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/repository/memory"
	"github.com/Rajgohel2908/Memora/pkg/service/visnet"
	"github.com/Rajgohel2908/Memora/pkg/service/worker"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
)

type fakeRegistry struct {
	mu    sync.Mutex
	calls int
	ttls  []time.Duration
}

func (f *fakeRegistry) SweepIdle(ctx context.Context, ttl time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ttls = append(f.ttls, ttl)
	return 1
}

func (f *fakeRegistry) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestViewSweeper_PeriodicSweep(t *testing.T) {
	reg := &fakeRegistry{}
	w := worker.NewViewSweeper(reg, 5*time.Minute, 20*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(110 * time.Millisecond)
	w.Stop()

	calls := reg.count()
	gt.Bool(t, calls >= 2).True()
	gt.Value(t, reg.ttls[0]).Equal(5 * time.Minute)

	// No sweep after Stop returned.
	time.Sleep(50 * time.Millisecond)
	gt.Value(t, reg.count()).Equal(calls)
}

func TestViewSweeper_StopsOnContextCancel(t *testing.T) {
	reg := &fakeRegistry{}
	w := worker.NewViewSweeper(reg, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() did not return after context cancellation")
	}
	gt.Value(t, reg.count()).Equal(0)
}

func TestViewSweeper_ClosesIdleViews(t *testing.T) {
	ctx := context.Background()

	destroyed := make(chan struct{}, 1)
	factory := func(ctx context.Context, emit func(graph.Event)) (interfaces.Renderer, error) {
		r, err := visnet.NewFactory(visnet.WithSettleDelay(time.Hour))(ctx, emit)
		if err != nil {
			return nil, err
		}
		return &notifyingRenderer{Renderer: r, destroyed: destroyed}, nil
	}

	uc := usecase.New(memory.New(), usecase.WithRendererFactory(factory))
	_, err := uc.Network.Open(ctx, "user-1", usecase.OpenViewInput{})
	gt.NoError(t, err).Required()

	w := worker.NewViewSweeper(uc.Network, time.Nanosecond, 10*time.Millisecond)
	gt.NoError(t, w.Start(ctx)).Required()
	defer w.Stop()

	select {
	case <-destroyed:
	case <-time.After(time.Second):
		t.Fatal("idle view was not closed")
	}
	gt.Value(t, uc.Network.Count()).Equal(0)
}

type notifyingRenderer struct {
	interfaces.Renderer
	destroyed chan struct{}
}

func (r *notifyingRenderer) Destroy() {
	r.Renderer.Destroy()
	select {
	case r.destroyed <- struct{}{}:
	default:
	}
}
