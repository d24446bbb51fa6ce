// Package flightrecorder captures runtime execution traces around request
// timeouts so slow requests can be diagnosed after the fact.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/repforge/repforge/internal/errors"
)

const (
	// defaultMinAge is the minimum age of trace events to keep.
	defaultMinAge = 5 * time.Minute

	// defaultMaxBytes caps the in-memory trace buffer.
	defaultMaxBytes = 64 * 1024 * 1024

	// cooldownDuration is the minimum time between captures, so a burst of
	// timeouts cannot flood the traces directory.
	cooldownDuration = 30 * time.Minute
)

// Service wraps a runtime trace flight recorder and writes a snapshot when a
// timeout capture is requested.
type Service struct {
	logger          *slog.Logger
	flightRecorder  *trace.FlightRecorder
	tracesDirectory string
	lastCapture     atomic.Int64
}

// Config configures the flight recorder service.
type Config struct {
	Logger          *slog.Logger
	MinAge          time.Duration
	MaxBytes        uint64
	TracesDirectory string
}

// New creates a flight recorder service writing into cfg.TracesDirectory,
// creating the directory when missing.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.TracesDirectory == "" {
		return nil, errors.New("traces directory is required")
	}

	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		if err = os.MkdirAll(cfg.TracesDirectory, 0o700); err != nil {
			return nil, errors.Wrap(err, "create traces directory")
		}
	} else if !stat.IsDir() {
		return nil, errors.New("traces path is not a directory: " + cfg.TracesDirectory)
	}

	minAge := cfg.MinAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}

	recorder := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   minAge,
		MaxBytes: maxBytes,
	})
	if recorder == nil {
		return nil, errors.New("create flight recorder")
	}

	return &Service{
		logger:          cfg.Logger,
		flightRecorder:  recorder,
		tracesDirectory: cfg.TracesDirectory,
	}, nil
}

// Start begins recording.
func (s *Service) Start(ctx context.Context) error {
	if err := s.flightRecorder.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("traces_dir", s.tracesDirectory))
	return nil
}

// Stop ends recording.
func (s *Service) Stop(ctx context.Context) {
	s.flightRecorder.Stop()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// CaptureTimeoutTrace writes the current trace buffer to a timestamped file.
// Captures inside the cooldown window are dropped.
func (s *Service) CaptureTimeoutTrace(ctx context.Context) {
	now := time.Now().Unix()
	lastCapture := s.lastCapture.Load()
	if lastCapture > 0 && time.Duration(now-lastCapture)*time.Second < cooldownDuration {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", time.Unix(lastCapture, 0)))
		return
	}
	if !s.lastCapture.CompareAndSwap(lastCapture, now) {
		// Lost the race to a concurrent capture.
		return
	}

	timestamp := time.Unix(now, 0).UTC().Format("20060102-150405")
	path := filepath.Join(s.tracesDirectory, fmt.Sprintf("timeout-%s.trace", timestamp))

	file, err := os.Create(path)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "create trace file",
			slog.String("file", path), errors.SlogError(err))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "close trace file",
				slog.String("file", path), errors.SlogError(closeErr))
		}
	}()

	written, err := s.flightRecorder.WriteTo(file)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "write trace",
			slog.String("file", path), errors.SlogError(err))
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured timeout trace",
		slog.String("file", path), slog.Int64("bytes", written))
}
