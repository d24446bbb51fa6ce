// Package auth implements the credential flow for the sync backend: bcrypt
// password hashing and signed bearer tokens with a fixed expiry.
package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/repforge/repforge/internal/errors"
)

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 7 * 24 * time.Hour

// Token verification failures.
var (
	ErrInvalidToken       = errors.NewSentinel("invalid token")
	ErrInvalidCredentials = errors.NewSentinel("invalid credentials")
)

// Authenticator hashes passwords and issues signed tokens.
type Authenticator struct {
	signingKey []byte
	now        func() time.Time
}

// New creates an authenticator with the given signing key.
func New(signingKey []byte) *Authenticator {
	return &Authenticator{signingKey: signingKey, now: time.Now}
}

// GenerateSigningKey returns a fresh random signing key for deployments that
// do not configure one.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

// HashPassword derives a bcrypt hash for storage.
func (a *Authenticator) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a password against its stored hash.
func (a *Authenticator) VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// claims carries the authenticated username.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for the username.
func (a *Authenticator) IssueToken(username string) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	})
	signed, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the username it carries.
func (a *Authenticator) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(*jwt.Token) (any, error) {
		return a.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	)
	if err != nil {
		return "", errors.Wrap(ErrInvalidToken, "parse token")
	}
	parsed, ok := token.Claims.(*claims)
	if !ok || parsed.Username == "" {
		return "", ErrInvalidToken
	}
	return parsed.Username, nil
}
