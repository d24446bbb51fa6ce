package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/repforge/repforge/internal/e2etest"
)

const defaultTimeout = 5 * time.Second

// configureAndStartServer serves handler on addr until the context is
// cancelled or an interrupt arrives, then drains in-flight requests.
func (app *application) configureAndStartServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           handler,
		IdleTimeout:       time.Minute,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigint:
		case <-ctx.Done():
		}
		app.logger.LogAttrs(ctx, slog.LevelInfo, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "error shutting down server",
				slog.Any("error", fmt.Errorf("shutdown server: %w", err)))
		}
		close(shutdownDone)
	}()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("TCP listen: %w", err)
	}
	// The e2e harness reads the resolved address from this log line.
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.Any(e2etest.LogAddrKey, listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server serve: %w", err)
	}
	<-shutdownDone

	return nil
}
