// Package errors provides error wrapping with slog annotations attached to the
// error chain. It re-exports the stdlib helpers so callers only need one import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// AnnotatedError is an error carrying a message and optional [slog.Attr]
// annotations that end up in the log output via [SlogError].
type AnnotatedError struct {
	msg         string
	err         error
	annotations []slog.Attr
}

// NewSentinel creates a new error without a wrapped cause. Use it for package
// level sentinel errors that callers match with [Is].
func NewSentinel(msg string) error {
	return &AnnotatedError{msg: msg, err: nil, annotations: nil}
}

// Wrap annotates err with a message and optional [slog.Attr] for logging.
func Wrap(err error, msg string, annotations ...slog.Attr) error {
	return &AnnotatedError{msg: msg, err: err, annotations: annotations}
}

func (e *AnnotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *AnnotatedError) Unwrap() error {
	return e.err
}

// New returns an error that formats as the given text. See [errors.New].
func New(text string) error {
	return stderrors.New(text) //nolint:err113 // mirror of stdlib errors.New.
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// SlogError converts err into a [slog.Attr] with the error message, the
// annotations collected from the whole error chain, and the source location of
// the SlogError call site.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}

	attrs := []slog.Attr{
		slog.String("message", err.Error()),
	}

	if annotations := collectAnnotations(err); len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}

	if source := callerOutsidePackage(); source != "" {
		attrs = append(attrs, slog.String("source", source))
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// collectAnnotations walks the error tree and gathers annotations from every
// AnnotatedError it finds. Multi-errors from Join are traversed recursively.
func collectAnnotations(err error) []slog.Attr {
	var annotations []slog.Attr
	for err != nil {
		switch e := err.(type) {
		case *AnnotatedError:
			annotations = append(annotations, e.annotations...)
			err = e.err
		case interface{ Unwrap() []error }:
			for _, joined := range e.Unwrap() {
				annotations = append(annotations, collectAnnotations(joined)...)
			}
			return annotations
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		default:
			return annotations
		}
	}
	return annotations
}

// DecoratePanic converts a recovered panic value into an error annotated with
// the source location of the panic site. Returns nil when recovered is nil.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	var annotations []slog.Attr
	if source := panicSite(); source != "" {
		annotations = append(annotations, slog.String("panic_source", source))
	}
	return &AnnotatedError{
		msg:         fmt.Sprintf("panic: %v", recovered),
		err:         nil,
		annotations: annotations,
	}
}

// panicSite locates the frame that triggered the panic currently being
// recovered. It is the first non-runtime frame after runtime.gopanic.
func panicSite() string {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and panicSite.
	frames := runtime.CallersFrames(pcs[:n])
	seenGopanic := false
	for {
		frame, more := frames.Next()
		switch {
		case frame.Function == "runtime.gopanic":
			seenGopanic = true
		case seenGopanic && !strings.HasPrefix(frame.Function, "runtime."):
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// callerOutsidePackage returns the first caller frame outside this package as
// a file:line string.
func callerOutsidePackage() string {
	const maxDepth = 16
	pcs := make([]uintptr, maxDepth)
	// Skip runtime.Callers and callerOutsidePackage itself.
	n := runtime.Callers(2, pcs) //nolint:mnd // see comment above.
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasSuffix(frame.File, "annotatederror.go") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}
