package flightrecorder_test

import (
	"os"
	"strings"
	"testing"

	"github.com/repforge/repforge/internal/flightrecorder"
	"github.com/repforge/repforge/internal/testhelpers"
)

func newTestService(t *testing.T) (*flightrecorder.Service, string) {
	t.Helper()
	traceDir := t.TempDir()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	service, err := flightrecorder.New(flightrecorder.Config{
		Logger:          logger,
		TracesDirectory: traceDir,
	})
	if err != nil {
		t.Fatalf("new flight recorder: %v", err)
	}
	return service, traceDir
}

func TestService_startStop(t *testing.T) {
	ctx := t.Context()
	service, _ := newTestService(t)

	if err := service.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	service.Stop(ctx)
}

func TestService_captureWritesTraceFile(t *testing.T) {
	ctx := t.Context()
	service, traceDir := newTestService(t)

	if err := service.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer service.Stop(ctx)

	service.CaptureTimeoutTrace(ctx)

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("read trace directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("trace files = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "timeout-") || !strings.HasSuffix(name, ".trace") {
		t.Errorf("trace filename = %q, want timeout-*.trace", name)
	}
}

func TestService_cooldownSuppressesSecondCapture(t *testing.T) {
	ctx := t.Context()
	service, traceDir := newTestService(t)

	if err := service.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer service.Stop(ctx)

	service.CaptureTimeoutTrace(ctx)
	service.CaptureTimeoutTrace(ctx)

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("read trace directory: %v", err)
	}
	if len(entries) > 1 {
		t.Errorf("trace files = %d, want cooldown to keep it at 1", len(entries))
	}
}
