// Command stresstest drives concurrent load against a running server:
// registers a fleet of users, backfills workout history, then hammers the
// analytics endpoints and reports success rate and latency.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/repforge/repforge/internal/e2etest"
	"github.com/repforge/repforge/internal/logging"
	"github.com/repforge/repforge/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	numUsers                   = 20
	maxConcurrentRegistrations = 10
	maxConcurrentOperations    = 20
	workoutHistoryWeeks        = 8
	requestsPerUser            = 25
	setupTimeout               = 2 * time.Minute
	scenarioTimeout            = 2 * time.Minute
	successRateThreshold       = 95.0
	percentageMultiplier       = 100
	baseWeight                 = 20.0
	weightVariation            = 10
	baseReps                   = 8
	repsVariation              = 4
)

// statsPaths are the read endpoints under load.
var statsPaths = []string{
	"/api/stats/streak",
	"/api/stats/records",
	"/api/stats/recovery?days=7",
	"/api/stats/recommendations",
}

// setupUsers registers the fleet concurrently.
func setupUsers(ctx context.Context, url string, logger *slog.Logger) ([]*e2etest.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		clients = make([]*e2etest.Client, 0, numUsers)
	)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentRegistrations)
	for i := range numUsers {
		group.Go(func() error {
			client := e2etest.NewClient(url)
			if err := client.Register(ctx); err != nil {
				return fmt.Errorf("register user %d: %w", i, err)
			}
			mu.Lock()
			clients = append(clients, client)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "users registered", slog.Int("num_users", len(clients)))
	return clients, nil
}

// backfillHistory logs weekly workouts for each user so the analytics
// endpoints have something to chew on.
func backfillHistory(ctx context.Context, clients []*e2etest.Client, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentOperations)
	for i, client := range clients {
		group.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(i), 1))
			for week := range workoutHistoryWeeks {
				date := time.Now().AddDate(0, 0, -7*week)
				log := map[string]any{
					"date": date.UTC().Format(time.RFC3339),
					"data": map[string]any{
						"durationSeconds": 1800,
						"exerciseLogs": []map[string]any{{
							"exerciseId":   1,
							"exerciseName": "Goblet Squat",
							"sets": []map[string]any{{
								"weight":    baseWeight + float64(rng.IntN(weightVariation)),
								"reps":      baseReps + rng.IntN(repsVariation),
								"completed": true,
							}},
						}},
					},
				}
				if err := client.PostJSON(ctx, "/api/logs", log, nil); err != nil {
					return fmt.Errorf("user %d week %d: %w", i, week, err)
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "history backfilled",
		slog.Int("workouts_per_user", workoutHistoryWeeks))
	return nil
}

// hammerAnalytics issues concurrent reads and collects latencies.
func hammerAnalytics(ctx context.Context, clients []*e2etest.Client, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	var (
		successes atomic.Int64
		failures  atomic.Int64
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, numUsers*requestsPerUser)
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentOperations)
	for i, client := range clients {
		group.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(i), 2))
			for range requestsPerUser {
				path := statsPaths[rng.IntN(len(statsPaths))]
				start := time.Now()
				err := client.GetJSON(ctx, path, nil)
				elapsed := time.Since(start)
				if err != nil {
					failures.Add(1)
					logger.LogAttrs(ctx, slog.LevelWarn, "request failed",
						slog.String("path", path), slog.Any("error", err))
					continue
				}
				successes.Add(1)
				mu.Lock()
				latencies = append(latencies, elapsed)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	total := successes.Load() + failures.Load()
	if total == 0 {
		return fmt.Errorf("no requests completed")
	}
	successRate := float64(successes.Load()) / float64(total) * percentageMultiplier

	sort.Slice(latencies, func(a, b int) bool { return latencies[a] < latencies[b] })
	var p50, p95 time.Duration
	if len(latencies) > 0 {
		p50 = latencies[len(latencies)/2]
		p95 = latencies[len(latencies)*95/100]
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "analytics load complete",
		slog.Int64("requests", total),
		slog.String("success_rate", fmt.Sprintf("%.1f%%", successRate)),
		slog.Duration("p50", p50),
		slog.Duration("p95", p95))

	if successRate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% below threshold %.1f%%", successRate, successRateThreshold)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}
	hostname := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	probe := e2etest.NewClient(url)
	if err := probe.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	start := time.Now()
	clients, err := setupUsers(ctx, url, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "user setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err = backfillHistory(ctx, clients, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "history backfill failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err = hammerAnalytics(ctx, clients, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Stress test successful 💪", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
