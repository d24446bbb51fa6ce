package main

import (
	"net/http"
	"testing"

	"github.com/repforge/repforge/internal/e2etest"
)

func Test_application_auth(t *testing.T) {
	ctx := t.Context()
	server, client := startTestServer(t)

	t.Run("register issues a working token", func(t *testing.T) {
		var me struct {
			Username string `json:"username"`
		}
		if err := client.GetJSON(ctx, "/auth/me", &me); err != nil {
			t.Fatalf("get /auth/me: %v", err)
		}
		if me.Username != client.Username() {
			t.Errorf("authenticated username = %q, want %q", me.Username, client.Username())
		}
	})

	t.Run("login after logout issues a fresh token", func(t *testing.T) {
		client.Logout()
		if err := client.Login(ctx); err != nil {
			t.Fatalf("login: %v", err)
		}
		if client.Token() == "" {
			t.Error("want token after login")
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		resp, err := client.Do(ctx, http.MethodPost, "/auth/register", map[string]string{
			"username": client.Username(),
			"password": "another password 123",
		})
		if err != nil {
			t.Fatalf("register duplicate: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("duplicate register status = %d, want %d", resp.StatusCode, http.StatusConflict)
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		resp, err := client.Do(ctx, http.MethodPost, "/auth/login", map[string]string{
			"username": client.Username(),
			"password": "wrong password entirely",
		})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("bad login status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("requests without a token are rejected", func(t *testing.T) {
		anonymous := e2etest.NewClient(server.URL())
		resp, err := anonymous.Do(ctx, http.MethodGet, "/api/exercises", nil)
		if err != nil {
			t.Fatalf("anonymous request: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("anonymous status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL()+"/api/exercises", nil)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("forged request: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("forged token status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})
}
