package contexthelpers

type contextKey string

const IsAuthenticatedContextKey = contextKey("isAuthenticated")
const AuthenticatedUsernameContextKey = contextKey("authenticatedUsername")
