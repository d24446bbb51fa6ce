package cache_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/repforge/repforge/internal/cache"
	"github.com/repforge/repforge/internal/testhelpers"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	return cache.New(0, 0, logger)
}

func TestCache_roundTrip(t *testing.T) {
	ctx := t.Context()
	c := newTestCache(t)

	want := payload{Name: "streak", Count: 7}
	c.Set(ctx, "streak@g3", want)

	var got payload
	if !c.Get(ctx, "streak@g3", &got) {
		t.Fatal("want cache hit, got miss")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cached payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_missOnUnknownKey(t *testing.T) {
	ctx := t.Context()
	c := newTestCache(t)

	var got payload
	if c.Get(ctx, "never-set", &got) {
		t.Error("want miss for unknown key, got hit")
	}
}

func TestCache_generationChangeMisses(t *testing.T) {
	ctx := t.Context()
	c := newTestCache(t)

	c.Set(ctx, "records@g1", payload{Name: "records", Count: 2})

	var got payload
	if c.Get(ctx, "records@g2", &got) {
		t.Error("want miss after generation bump, got hit")
	}
}

func TestCache_undecodableEntryIsDropped(t *testing.T) {
	ctx := t.Context()
	c := newTestCache(t)

	// Stored as a string, read back into a struct.
	c.Set(ctx, "shape-change", "not an object")

	var got payload
	if c.Get(ctx, "shape-change", &got) {
		t.Fatal("want miss for undecodable entry, got hit")
	}
	// The broken entry is evicted, so a matching read also misses.
	var asString string
	if c.Get(ctx, "shape-change", &asString) {
		t.Error("want entry dropped after decode failure, got hit")
	}
}
