package usecase

import (
	"context"
	"time"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/service/metrics"
	"github.com/Rajgohel2908/Memora/pkg/utils/async"
)

type UseCases struct {
	repo     interfaces.Repository
	storage  interfaces.BlobStorage
	factory  interfaces.RendererFactory
	metrics  *metrics.Collector
	palette  *graph.Palette
	location *time.Location
	syncNet  bool

	Memory  *MemoryUseCase
	Graph   *GraphUseCase
	Network *NetworkUseCase
	Auth    AuthUseCaseInterface
}

type Option func(*UseCases)

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func WithBlobStorage(storage interfaces.BlobStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func WithRendererFactory(factory interfaces.RendererFactory) Option {
	return func(uc *UseCases) {
		uc.factory = factory
	}
}

func WithMetrics(collector *metrics.Collector) Option {
	return func(uc *UseCases) {
		uc.metrics = collector
	}
}

// WithPalette overrides the default mood palette
func WithPalette(p graph.Palette) Option {
	return func(uc *UseCases) {
		uc.palette = &p
	}
}

// WithLocation sets the time zone used for calendar grouping
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCases) {
		uc.location = loc
	}
}

// WithSyncViewRefresh refreshes open views in the goroutine that changed
// the memories instead of a background one
func WithSyncViewRefresh() Option {
	return func(uc *UseCases) {
		uc.syncNet = true
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		location: time.UTC,
	}

	for _, opt := range opts {
		opt(uc)
	}

	var buildOpts []graph.BuildOption
	if uc.palette != nil {
		buildOpts = append(buildOpts, graph.WithPalette(*uc.palette))
	}

	uc.Memory = NewMemoryUseCase(repo, uc.storage, uc.location)
	uc.Graph = NewGraphUseCase(uc.Memory, uc.metrics, uc.location, buildOpts...)
	uc.Network = NewNetworkUseCase(uc.Memory, uc.Graph, uc.factory, uc.metrics)

	uc.Memory.OnChange(func(ctx context.Context, userID model.UserID) error {
		if uc.syncNet {
			return uc.Network.RecordsChanged(ctx, userID)
		}
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.Network.RecordsChanged(ctx, userID)
		})
		return nil
	})

	return uc
}
