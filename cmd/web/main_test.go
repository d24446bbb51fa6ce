package main

import (
	"testing"

	"github.com/repforge/repforge/internal/e2etest"
	"github.com/repforge/repforge/internal/testhelpers"
)

// testLookupEnv configures the server for tests: ephemeral port, in-memory
// database, fixed signing key.
func testLookupEnv(key string) (string, bool) {
	env := map[string]string{
		"REPFORGE_ADDR":       "localhost:0",
		"REPFORGE_SQLITE_URL": ":memory:",
		"REPFORGE_JWT_SECRET": "test-signing-key-not-a-secret",
	}
	value, ok := env[key]
	return value, ok
}

// startTestServer boots the full application and returns a client that has
// already registered an account.
func startTestServer(t *testing.T) (*e2etest.Server, *e2etest.Client) {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	client := server.Client()
	if err = client.Register(t.Context()); err != nil {
		t.Fatalf("register: %v", err)
	}
	return server, client
}
