package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/repforge/repforge/internal/e2etest"
	"github.com/repforge/repforge/internal/sqlite"
	"github.com/repforge/repforge/internal/store"
	syncapi "github.com/repforge/repforge/internal/sync"
	"github.com/repforge/repforge/internal/testhelpers"
)

// Test_application_syncsOnStartup verifies that a freshly started server
// pulls the upstream dataset without waiting for a local write.
func Test_application_syncsOnStartup(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create upstream database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close upstream database: %v", closeErr)
		}
	})
	remote := store.New(db, logger)
	if _, err = remote.Exercises.Create(ctx, store.Exercise{
		Name:        "Trap Bar Deadlift",
		MuscleGroup: "Legs",
		Equipment:   []string{"trap bar"},
		MET:         6.5,
	}); err != nil {
		t.Fatalf("seed upstream exercise: %v", err)
	}
	upstream := httptest.NewServer(syncapi.NewServer(remote, logger).Handler())
	t.Cleanup(upstream.Close)

	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "REPFORGE_SYNC_URL":
			return upstream.URL, true
		case "REPFORGE_SYNC_INTERVAL":
			// Long enough that only the startup trigger can fire.
			return "1h", true
		}
		return testLookupEnv(key)
	}
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), lookupEnv, run)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	client := server.Client()
	if err = client.Register(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}

	// The startup trigger runs in the background, so poll until it lands.
	deadline := time.After(10 * time.Second)
	for {
		var exercises []struct {
			Name string `json:"name"`
		}
		if err = client.GetJSON(ctx, "/api/exercises", &exercises); err != nil {
			t.Fatalf("list exercises: %v", err)
		}
		if len(exercises) > 0 {
			if got, want := exercises[0].Name, "Trap Bar Deadlift"; got != want {
				t.Fatalf("pulled exercise %q, want %q", got, want)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("startup sync never pulled the upstream exercise")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
