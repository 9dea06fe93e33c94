package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/service/metrics"
)

// GraphUseCase builds memory networks without keeping any view state
type GraphUseCase struct {
	memory   *MemoryUseCase
	location *time.Location
	options  []graph.BuildOption
	metrics  *metrics.Collector
}

// NewGraphUseCase creates a GraphUseCase grouping dates in loc. A nil loc
// means UTC.
func NewGraphUseCase(memory *MemoryUseCase, collector *metrics.Collector, loc *time.Location, opts ...graph.BuildOption) *GraphUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &GraphUseCase{
		memory:   memory,
		location: loc,
		options:  append([]graph.BuildOption{graph.WithLocation(loc)}, opts...),
		metrics:  collector,
	}
}

// Build loads every memory of userID and builds its graph
func (uc *GraphUseCase) Build(ctx context.Context, userID model.UserID, res types.Resolution, filter graph.Filter) (*graph.Graph, error) {
	records, err := uc.memory.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.build(ctx, records, res, filter)
}

// Filters returns the filters selectable for userID's memories
func (uc *GraphUseCase) Filters(ctx context.Context, userID model.UserID) (graph.FilterOptions, error) {
	records, err := uc.memory.ListAll(ctx, userID)
	if err != nil {
		return graph.FilterOptions{}, err
	}
	return graph.AvailableFilters(records), nil
}

func (uc *GraphUseCase) build(ctx context.Context, records []*model.Memory, res types.Resolution, filter graph.Filter) (*graph.Graph, error) {
	graph.SortChronologically(records)

	g, err := graph.Build(ctx, records, res, filter, uc.options...)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error(), goerr.V("resolution", res))
	}
	uc.metrics.ObserveBuild(g)
	return g, nil
}
