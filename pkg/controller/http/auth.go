package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/auth"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
	"github.com/Rajgohel2908/Memora/pkg/utils/errutil"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type userMeResponse struct {
	Sub     string `json:"sub"`
	Name    string `json:"name,omitempty"`
	NoAuthn bool   `json:"noAuthn"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// currentUser returns the user authenticated by authMiddleware
func currentUser(r *http.Request) (model.UserID, error) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		return "", usecase.ErrUnauthenticated
	}
	return token.Sub, nil
}

// authMeHandler returns current user information
func authMeHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, usecase.ErrUnauthenticated, http.StatusUnauthorized)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:     string(token.Sub),
			Name:    token.Name,
			NoAuthn: authUC.IsNoAuthn(),
		})
	}
}
