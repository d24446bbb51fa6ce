package auth_test

import (
	"strings"
	"testing"

	"github.com/repforge/repforge/internal/auth"
	"github.com/repforge/repforge/internal/errors"
)

func TestPasswordHashing(t *testing.T) {
	a := auth.New([]byte("test-signing-key"))

	hash, err := a.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in the clear")
	}

	if err = a.VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err = a.VerifyPassword(hash, "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := auth.New([]byte("test-signing-key"))

	token, err := a.IssueToken("lifter")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not a three-segment JWT", token)
	}

	username, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if username != "lifter" {
		t.Errorf("username = %q, want lifter", username)
	}
}

func TestVerifyToken_rejectsBadInput(t *testing.T) {
	a := auth.New([]byte("test-signing-key"))
	other := auth.New([]byte("different-key"))

	foreign, err := other.IssueToken("lifter")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	testCases := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.token"},
		{"token signed with another key", foreign},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := a.VerifyToken(tc.token); !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("want ErrInvalidToken, got %v", err)
			}
		})
	}
}
