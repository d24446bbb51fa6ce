package contexthelpers

import (
	"context"
	"net/http"
)

func AuthenticateContext(r *http.Request, username string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, AuthenticatedUsernameContextKey, username)
	return r.WithContext(ctx)
}
