package contexthelpers

import (
	"context"
)

func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}

	return isAuthenticated
}

func AuthenticatedUsername(ctx context.Context) string {
	username, ok := ctx.Value(AuthenticatedUsernameContextKey).(string)
	if !ok {
		return ""
	}

	return username
}
