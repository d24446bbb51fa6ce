package main

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/trace"
	"strings"
	"time"

	"github.com/repforge/repforge/internal/contexthelpers"
	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/logging"
)

// statusResponseWriter records the status code for request logging.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (sw *statusResponseWriter) WriteHeader(statusCode int) {
	sw.ResponseWriter.WriteHeader(statusCode)
	if !sw.headerWritten {
		sw.statusCode = statusCode
		sw.headerWritten = true
	}
}

func (sw *statusResponseWriter) Write(b []byte) (int, error) {
	sw.headerWritten = true
	n, err := sw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (sw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// logAndTraceRequest tags the request context with a trace ID and request
// attributes, logs completion, and mirrors the request into runtime/trace
// when tracing is active.
func (app *application) logAndTraceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := rand.Text()
		ctx := logging.WithAttrs(r.Context(),
			slog.String("trace_id", traceID),
			slog.String("proto", r.Proto),
			slog.String("method", r.Method),
			slog.String("uri", r.URL.RequestURI()),
		)
		r = r.WithContext(ctx)

		start := time.Now()
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request")

		sw := newStatusResponseWriter(w)
		if trace.IsEnabled() {
			traceCtx, task := trace.NewTask(ctx, fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
			trace.Log(traceCtx, "request", fmt.Sprintf("method=%s path=%s proto=%s", r.Method, r.URL.Path, r.Proto))
			trace.Log(traceCtx, "trace_id", traceID)
			defer func() {
				trace.Log(traceCtx, "response", fmt.Sprintf("status=%d duration=%v", sw.statusCode, time.Since(start)))
				task.End()
			}()
			r = r.WithContext(traceCtx)
		}
		next.ServeHTTP(sw, r)

		level := slog.LevelInfo
		if sw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		app.logger.LogAttrs(r.Context(), level, "request completed",
			slog.Int("status_code", sw.statusCode), slog.Duration("duration", time.Since(start)))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				app.serverError(w, r, errors.DecoratePanic(recovered))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the bearer token into the request context. Requests
// without a token pass through unauthenticated.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			username, err := app.authenticator.VerifyToken(token)
			if err != nil {
				app.clientError(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			r = contexthelpers.AuthenticateContext(r, username)
		}
		next.ServeHTTP(w, r)
	})
}

// mustAuthenticate rejects unauthenticated requests.
func (app *application) mustAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contexthelpers.IsAuthenticated(r.Context()) {
			app.clientError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// timeout times out the request and cancels the context using
// http.TimeoutHandler. A timing-out request also triggers a flight recorder
// capture when one is configured.
func (app *application) timeout(next http.Handler) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if err := r.Context().Err(); err != nil && app.flightRecorder != nil {
			app.flightRecorder.CaptureTimeoutTrace(r.Context())
		}
	})
	timeout := defaultTimeout - (200 * time.Millisecond) //nolint:mnd // writing the response takes time.
	return http.TimeoutHandler(inner, timeout, `{"error":"timed out"}`)
}
