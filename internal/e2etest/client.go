// Package e2etest boots the real server binary entry point on an ephemeral
// port and drives it through its JSON API.
package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a JSON API client that remembers its bearer token after
// registration or login.
type Client struct {
	client   *http.Client
	url      string
	token    string
	username string
	password string
}

// NewClient creates a client for the server at url.
func NewClient(url string) *Client {
	return &Client{
		client:   &http.Client{},
		url:      url,
		username: fmt.Sprintf("athlete-%d", time.Now().UnixNano()),
		password: "correct horse battery staple",
	}
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return fmt.Errorf("close response body: %w", err)
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Username returns the generated credential identity.
func (c *Client) Username() string {
	return c.username
}

// Token returns the bearer token captured by Register or Login.
func (c *Client) Token() string {
	return c.token
}

type tokenPayload struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register creates an account with the client's generated credentials and
// stores the returned token.
func (c *Client) Register(ctx context.Context) error {
	return c.obtainToken(ctx, "/auth/register", http.StatusCreated)
}

// Login authenticates with the client's credentials and stores the returned
// token.
func (c *Client) Login(ctx context.Context) error {
	return c.obtainToken(ctx, "/auth/login", http.StatusOK)
}

// Logout discards the stored token. Tokens are stateless so there is nothing
// to revoke server side.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) obtainToken(ctx context.Context, urlPath string, wantStatus int) error {
	body := map[string]string{"username": c.username, "password": c.password}
	resp, err := c.do(ctx, http.MethodPost, urlPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s: status %d, want %d", urlPath, resp.StatusCode, wantStatus)
	}
	var payload tokenPayload
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if payload.Token == "" {
		return fmt.Errorf("%s: empty token", urlPath)
	}
	c.token = payload.Token
	return nil
}

// GetJSON issues an authenticated GET and decodes the 200 response into out.
func (c *Client) GetJSON(ctx context.Context, urlPath string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", urlPath, resp.StatusCode)
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode GET %s: %w", urlPath, err)
	}
	return nil
}

// PostJSON issues an authenticated POST with a JSON body and decodes the
// response into out when it is non-nil. Accepts 200 and 201.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, urlPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: status %d: %s", urlPath, resp.StatusCode, raw)
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode POST %s: %w", urlPath, err)
	}
	return nil
}

// Do issues an arbitrary authenticated request and returns the raw response.
// The caller owns the body.
func (c *Client) Do(ctx context.Context, method, urlPath string, body any) (*http.Response, error) {
	return c.do(ctx, method, urlPath, body)
}

func (c *Client) do(ctx context.Context, method, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, urlPath, err)
	}
	return resp, nil
}
