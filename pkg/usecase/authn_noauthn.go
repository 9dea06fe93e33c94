package usecase

import (
	"context"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/auth"
)

// NoAuthnUseCase runs every request as a fixed user (for development/testing)
type NoAuthnUseCase struct {
	sub model.UserID
}

func NewNoAuthnUseCase(sub model.UserID) *NoAuthnUseCase {
	return &NoAuthnUseCase{sub: sub}
}

// Authenticate ignores the bearer token and returns the fixed user
func (uc *NoAuthnUseCase) Authenticate(ctx context.Context, bearer string) (*auth.Token, error) {
	return &auth.Token{Sub: uc.sub}, nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
