package auth

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
)

// ErrNoToken is returned when the context carries no authenticated user
var ErrNoToken = goerr.New("no authentication token in context")

// Token is the authenticated principal of a request
type Token struct {
	Sub  model.UserID
	Name string
}

type ctxTokenKey struct{}

// ContextWithToken returns a copy of ctx carrying token
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the token stored in ctx
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	return token, nil
}
