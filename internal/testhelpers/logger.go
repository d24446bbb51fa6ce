// Package testhelpers has logging plumbing shared by tests across packages.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/repforge/repforge/internal/logging"
)

// NewLogger returns a debug-level text logger writing to sink, typically a
// [Writer] so output lands in t.Log.
func NewLogger(sink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return slog.New(handler)
}
