package http

import (
	"errors"
	"net/http"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
	"github.com/Rajgohel2908/Memora/pkg/utils/errutil"
)

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrTooManyFiles),
		errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrMemoryNotFound),
		errors.Is(err, usecase.ErrViewNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrRendererUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}
