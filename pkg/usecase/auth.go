package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/auth"
)

// AuthUseCaseInterface resolves the principal of a request
type AuthUseCaseInterface interface {
	Authenticate(ctx context.Context, bearer string) (*auth.Token, error)
	IsNoAuthn() bool
}

// AuthUseCase verifies HS256 signed bearer tokens. The sub claim is the
// user ID.
type AuthUseCase struct {
	secret []byte
	skew   time.Duration
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithAcceptableSkew sets the clock skew tolerated for exp and nbf
func WithAcceptableSkew(d time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.skew = d
	}
}

func NewAuthUseCase(secret []byte, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		secret: secret,
		skew:   10 * time.Second,
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc
}

// Authenticate parses and verifies a token. A leading "Bearer " is
// stripped.
func (uc *AuthUseCase) Authenticate(ctx context.Context, bearer string) (*auth.Token, error) {
	raw := strings.TrimSpace(bearer)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "missing bearer token")
	}

	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(uc.skew),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, err.Error())
	}

	if token.Subject() == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "sub claim not found in token")
	}

	result := &auth.Token{Sub: model.UserID(token.Subject())}
	if name, ok := token.Get("name"); ok {
		if s, ok := name.(string); ok {
			result.Name = s
		}
	}
	return result, nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
