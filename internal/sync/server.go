package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/store"
)

// Server applies sync operations against a backing store.
type Server struct {
	store  *store.Store
	logger *slog.Logger
}

// NewServer creates a sync server over the given store.
func NewServer(st *store.Store, logger *slog.Logger) *Server {
	return &Server{store: st, logger: logger}
}

// Push applies a pushed dataset: exercises, logs, and rest days upsert by
// UID, routines upsert by id when present, and the deletion list removes
// routines. Failures on individual records abort the push so the client
// retries the whole batch on the next trigger.
func (s *Server) Push(ctx context.Context, req PushRequest) (PushResponse, error) {
	for _, exercise := range req.Exercises {
		if _, err := s.store.Exercises.Upsert(ctx, exercise); err != nil {
			return PushResponse{}, fmt.Errorf("upsert exercise %q: %w", exercise.Name, err)
		}
	}
	for _, routine := range req.Routines {
		if err := s.upsertRoutine(ctx, routine); err != nil {
			return PushResponse{}, fmt.Errorf("upsert routine %q: %w", routine.Name, err)
		}
	}
	for _, log := range req.WorkoutLogs {
		if _, err := s.store.Logs.Upsert(ctx, log); err != nil {
			return PushResponse{}, fmt.Errorf("upsert workout log %s: %w", log.UID, err)
		}
	}
	for _, day := range req.RestDays {
		if _, err := s.store.RestDays.Upsert(ctx, day); err != nil {
			return PushResponse{}, fmt.Errorf("upsert rest day %s: %w", day.UID, err)
		}
	}
	for _, id := range req.DeletedRoutines {
		if err := s.store.Routines.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return PushResponse{}, fmt.Errorf("delete routine %d: %w", id, err)
		}
	}

	return PushResponse{Status: "ok", SyncedAt: time.Now().UTC()}, nil
}

// upsertRoutine updates by id when the routine already exists remotely,
// otherwise falls back to UID-based upsert.
func (s *Server) upsertRoutine(ctx context.Context, routine store.Routine) error {
	if routine.ID != 0 {
		err := s.store.Routines.Put(ctx, routine)
		if err == nil || !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	_, err := s.store.Routines.Upsert(ctx, routine)
	return err
}

// Pull returns the full dataset.
func (s *Server) Pull(ctx context.Context) (PullResponse, error) {
	exercises, err := s.store.Exercises.List(ctx)
	if err != nil {
		return PullResponse{}, fmt.Errorf("list exercises: %w", err)
	}
	routines, err := s.store.Routines.List(ctx)
	if err != nil {
		return PullResponse{}, fmt.Errorf("list routines: %w", err)
	}
	logs, err := s.store.Logs.List(ctx)
	if err != nil {
		return PullResponse{}, fmt.Errorf("list workout logs: %w", err)
	}
	restDays, err := s.store.RestDays.List(ctx)
	if err != nil {
		return PullResponse{}, fmt.Errorf("list rest days: %w", err)
	}

	return PullResponse{
		Exercises:   exercises,
		Routines:    routines,
		WorkoutLogs: logs,
		RestDays:    restDays,
	}, nil
}
