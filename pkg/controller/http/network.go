package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/service/visnet"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
)

type viewResponse struct {
	ID          string              `json:"id"`
	Resolution  string              `json:"resolution"`
	Filter      string              `json:"filter"`
	Filters     graph.FilterOptions `json:"filters"`
	Selected    *memoryResponse     `json:"selected"`
	Hover       *graph.Tooltip      `json:"hover"`
	Generation  uint64              `json:"generation"`
	Stabilized  bool                `json:"stabilized"`
	RenderError string              `json:"renderError,omitempty"`
	Skipped     int                 `json:"skipped"`
	Scene       *visnet.Scene       `json:"scene"`
}

func toViewResponse(s usecase.ViewState) viewResponse {
	resp := viewResponse{
		ID:          string(s.ID),
		Resolution:  s.Resolution.String(),
		Filter:      s.Filter.String(),
		Filters:     s.Filters,
		Hover:       s.Hover,
		Generation:  s.Generation,
		Stabilized:  s.Stabilized,
		RenderError: s.RenderError,
	}
	if s.Selected != nil {
		m := toMemoryResponse(s.Selected)
		resp.Selected = &m
	}
	if s.Graph != nil {
		resp.Skipped = s.Graph.Skipped
		// A failed renderer never received the graph, so there is no scene.
		if s.RenderError == "" {
			resp.Scene = visnet.NewScene(s.Graph, sceneOptions)
		}
	}
	return resp
}

type openViewRequest struct {
	Resolution string `json:"resolution"`
	Filter     string `json:"filter"`
}

type resolutionRequest struct {
	Resolution string `json:"resolution"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

type eventRequest struct {
	Generation uint64 `json:"generation"`
	Kind       string `json:"kind"`
	NodeID     string `json:"nodeId"`
}

type eventResponse struct {
	Ignored    bool         `json:"ignored"`
	Transition string       `json:"transition"`
	View       viewResponse `json:"view"`
}

type networkHandler struct {
	network *usecase.NetworkUseCase
}

// respondView writes the view state. A renderer failure still leaves a
// usable view behind, so it is reported through renderError instead of an
// error status.
func respondView(w http.ResponseWriter, r *http.Request, status int, state usecase.ViewState, err error) {
	if err != nil && !(errors.Is(err, usecase.ErrRendererUnavailable) && state.ID != "") {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, status, toViewResponse(state))
}

func (h *networkHandler) view(r *http.Request) (*usecase.NetworkView, error) {
	userID, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	return h.network.Get(r.Context(), userID, usecase.ViewID(chi.URLParam(r, "id")))
}

func (h *networkHandler) open(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req openViewRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	res, err := parseResolution(req.Resolution)
	if err != nil {
		handleError(w, r, err)
		return
	}
	filter, err := parseFilter(req.Filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := h.network.Open(r.Context(), userID, usecase.OpenViewInput{Resolution: res, Filter: filter})
	if view == nil {
		handleError(w, r, err)
		return
	}
	respondView(w, r, http.StatusCreated, view.State(), err)
}

func (h *networkHandler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toViewResponse(view.State()))
}

func (h *networkHandler) setResolution(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req resolutionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Resolution == "" {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "resolution is required"))
		return
	}
	res, err := parseResolution(req.Resolution)
	if err != nil {
		handleError(w, r, err)
		return
	}

	state, err := view.SetResolution(r.Context(), res)
	respondView(w, r, http.StatusOK, state, err)
}

func (h *networkHandler) drillUp(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	state, err := view.DrillUp(r.Context())
	respondView(w, r, http.StatusOK, state, err)
}

func (h *networkHandler) setFilter(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	filter, err := parseFilter(req.Filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	state, err := view.SetFilter(r.Context(), filter)
	respondView(w, r, http.StatusOK, state, err)
}

func (h *networkHandler) event(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	kind, err := graph.ParseEventKind(req.Kind)
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, err.Error()))
		return
	}

	result, err := view.HandleEvent(r.Context(), req.Generation, graph.Event{
		Kind:   kind,
		NodeID: graph.NodeID(req.NodeID),
	})
	if err != nil && !(errors.Is(err, usecase.ErrRendererUnavailable) && result.State.ID != "") {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, eventResponse{
		Ignored:    result.Ignored,
		Transition: string(result.Transition),
		View:       toViewResponse(result.State),
	})
}

func (h *networkHandler) close(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.network.Close(r.Context(), userID, usecase.ViewID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}
