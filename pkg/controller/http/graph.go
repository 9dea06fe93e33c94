package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/service/visnet"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
)

var sceneOptions = interfaces.RenderOptions{Physics: true, FitOnStabilize: true}

type graphResponse struct {
	Resolution string        `json:"resolution"`
	Filter     string        `json:"filter"`
	Skipped    int           `json:"skipped"`
	Scene      *visnet.Scene `json:"scene"`
}

type graphHandler struct {
	graphs *usecase.GraphUseCase
}

func (h *graphHandler) build(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	res, err := parseResolution(q.Get("resolution"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	filter, err := parseFilter(q.Get("filter"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	g, err := h.graphs.Build(r.Context(), userID, res, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, graphResponse{
		Resolution: g.Resolution.String(),
		Filter:     g.Filter.String(),
		Skipped:    g.Skipped,
		Scene:      visnet.NewScene(g, sceneOptions),
	})
}

func (h *graphHandler) filters(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	opts, err := h.graphs.Filters(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, opts)
}

// parseResolution defaults to day
func parseResolution(s string) (types.Resolution, error) {
	if s == "" {
		return types.ResolutionDay, nil
	}
	res, err := types.ParseResolution(s)
	if err != nil {
		return "", goerr.Wrap(usecase.ErrInvalidInput, err.Error())
	}
	return res, nil
}

func parseFilter(s string) (graph.Filter, error) {
	f, err := graph.ParseFilter(s)
	if err != nil {
		return graph.Filter{}, goerr.Wrap(usecase.ErrInvalidInput, err.Error())
	}
	return f, nil
}
