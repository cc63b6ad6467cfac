package auth

import (
	"context"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
)

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, principalContextKey{}, user)
}

func PrincipalFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(principalContextKey{}).(model.User)
	return user, ok
}
