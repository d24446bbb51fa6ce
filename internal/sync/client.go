package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/store"
)

const requestTimeout = 30 * time.Second

// Client performs best-effort sync against a remote backend. Push and Pull
// return errors for callers that care; Trigger is the fire-and-forget entry
// point that logs and swallows them.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	store      *store.Store
	logger     *slog.Logger
}

// NewClient creates a sync client. The token is sent as a bearer header on
// every request.
func NewClient(baseURL, token string, st *store.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		store:      st,
		logger:     logger,
	}
}

// Push sends the full local dataset to the backend. On success the local
// deleted-routine bookkeeping is cleared.
func (c *Client) Push(ctx context.Context) error {
	req, err := c.collectPush(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode push request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push: backend returned %s", resp.Status)
	}

	if err = c.store.Routines.ClearDeletedIDs(ctx); err != nil {
		return fmt.Errorf("clear deletion bookkeeping: %w", err)
	}
	return nil
}

func (c *Client) collectPush(ctx context.Context) (PushRequest, error) {
	exercises, err := c.store.Exercises.List(ctx)
	if err != nil {
		return PushRequest{}, fmt.Errorf("list exercises: %w", err)
	}
	routines, err := c.store.Routines.List(ctx)
	if err != nil {
		return PushRequest{}, fmt.Errorf("list routines: %w", err)
	}
	logs, err := c.store.Logs.List(ctx)
	if err != nil {
		return PushRequest{}, fmt.Errorf("list workout logs: %w", err)
	}
	restDays, err := c.store.RestDays.List(ctx)
	if err != nil {
		return PushRequest{}, fmt.Errorf("list rest days: %w", err)
	}
	deleted, err := c.store.Routines.DeletedIDs(ctx)
	if err != nil {
		return PushRequest{}, fmt.Errorf("list deleted routines: %w", err)
	}

	return PushRequest{
		Exercises:       exercises,
		Routines:        routines,
		WorkoutLogs:     logs,
		RestDays:        restDays,
		DeletedRoutines: deleted,
	}, nil
}

// Pull fetches the remote dataset and upserts it into the local store.
func (c *Client) Pull(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sync/pull", nil)
	if err != nil {
		return fmt.Errorf("build pull request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pull: backend returned %s", resp.Status)
	}

	var payload PullResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode pull response: %w", err)
	}
	return c.applyPull(ctx, payload)
}

func (c *Client) applyPull(ctx context.Context, payload PullResponse) error {
	var errs []error
	for _, exercise := range payload.Exercises {
		if _, err := c.store.Exercises.Upsert(ctx, exercise); err != nil {
			errs = append(errs, fmt.Errorf("upsert exercise %q: %w", exercise.Name, err))
		}
	}
	for _, routine := range payload.Routines {
		if _, err := c.store.Routines.Upsert(ctx, routine); err != nil {
			errs = append(errs, fmt.Errorf("upsert routine %q: %w", routine.Name, err))
		}
	}
	for _, log := range payload.WorkoutLogs {
		if _, err := c.store.Logs.Upsert(ctx, log); err != nil {
			errs = append(errs, fmt.Errorf("upsert workout log %s: %w", log.UID, err))
		}
	}
	for _, day := range payload.RestDays {
		if _, err := c.store.RestDays.Upsert(ctx, day); err != nil {
			errs = append(errs, fmt.Errorf("upsert rest day %s: %w", day.UID, err))
		}
	}
	return errors.Join(errs...)
}

// Trigger runs a push and pull in the background. Failures are logged and
// swallowed: sync is best effort, never user blocking.
func (c *Client) Trigger(ctx context.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestTimeout)
		defer cancel()
		if err := c.Push(ctx); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "background push failed", errors.SlogError(err))
		}
		if err := c.Pull(ctx); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "background pull failed", errors.SlogError(err))
		}
	}()
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
