// Command smoketest exercises a deployed server end to end: credential auth,
// a write, and an analytics read.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/repforge/repforge/internal/e2etest"
	"github.com/repforge/repforge/internal/logging"
	"github.com/repforge/repforge/internal/testhelpers"
)

func testAuth(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var err error

	if err = client.Register(ctx); err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	client.Logout()
	if err = client.Login(ctx); err != nil {
		return fmt.Errorf("login user: %w", err)
	}
	return nil
}

func testAnalytics(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	log := map[string]any{
		"date": time.Now().UTC().Format(time.RFC3339),
		"data": map[string]any{"durationSeconds": 60},
	}
	if err := client.PostJSON(ctx, "/api/logs", log, nil); err != nil {
		return fmt.Errorf("post workout log: %w", err)
	}

	var streak struct {
		CurrentStreak int `json:"currentStreak"`
	}
	if err := client.GetJSON(ctx, "/api/stats/streak", &streak); err != nil {
		return fmt.Errorf("get streak: %w", err)
	}
	if streak.CurrentStreak < 1 {
		return fmt.Errorf("streak = %d after logging today, want at least 1", streak.CurrentStreak)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testAuth(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing auth", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testAnalytics(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing analytics", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
