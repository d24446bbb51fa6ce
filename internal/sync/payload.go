// Package sync implements the best-effort bidirectional sync between the
// local store and the remote backend. Records carry client-generated UIDs so
// repeated pushes and pulls upsert instead of duplicating.
package sync

import (
	"time"

	"github.com/repforge/repforge/internal/store"
)

// PushRequest is the body of a push: the full local dataset plus the ids of
// routines deleted locally since the last push.
type PushRequest struct {
	Exercises       []store.Exercise   `json:"exercises"`
	Routines        []store.Routine    `json:"routines"`
	WorkoutLogs     []store.WorkoutLog `json:"workoutLogs"`
	RestDays        []store.RestDay    `json:"restDays"`
	DeletedRoutines []int              `json:"deletedRoutines"`
}

// PushResponse acknowledges a completed push.
type PushResponse struct {
	Status   string    `json:"status"`
	SyncedAt time.Time `json:"syncedAt"`
}

// PullResponse is the full remote dataset.
type PullResponse struct {
	Exercises   []store.Exercise   `json:"exercises"`
	Routines    []store.Routine    `json:"routines"`
	WorkoutLogs []store.WorkoutLog `json:"workoutLogs"`
	RestDays    []store.RestDay    `json:"restDays"`
}
