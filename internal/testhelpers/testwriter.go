package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer forwards log output to t.Log so that server logs only surface
// for failed tests.
type Writer struct {
	t    *testing.T
	done chan struct{}
}

// NewWriter creates a Writer bound to the lifetime of the test.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{
		t:    t,
		done: make(chan struct{}),
	}
	t.Cleanup(func() {
		close(w.done)
	})
	return w
}

// Write implements io.Writer. It panics on writes after the test has
// finished, which catches servers that were never shut down.
func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.done:
		panic("testwriter: write after test completion, was the server shut down in t.Cleanup?")
	default:
	}
	// Trim the trailing newline so t.Log does not double-space the output.
	if line := strings.TrimSuffix(string(p), "\n"); line != "" {
		w.t.Log(line)
	}
	return len(p), nil
}
