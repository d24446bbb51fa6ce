package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/repforge/repforge/internal/sqlite"
)

const dateFormat = time.RFC3339

// Store bundles the per-collection repositories.
type Store struct {
	Exercises *ExerciseRepository
	Routines  *RoutineRepository
	Logs      *WorkoutLogRepository
	RestDays  *RestDayRepository
	Users     *UserRepository

	generation atomic.Uint64
}

// New creates a store over the given database.
func New(db *sqlite.Database, logger *slog.Logger) *Store {
	s := &Store{}
	base := baseRepository{db: db, logger: logger, store: s}
	s.Exercises = &ExerciseRepository{baseRepository: base}
	s.Routines = &RoutineRepository{baseRepository: base}
	s.Logs = &WorkoutLogRepository{baseRepository: base}
	s.RestDays = &RestDayRepository{baseRepository: base}
	s.Users = &UserRepository{baseRepository: base}
	return s
}

// Generation returns a counter that increases on every write to any
// collection. Derived analytics cache entries embed it in their keys so a
// write invalidates all memoized results at once.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// baseRepository carries the shared database handles.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
	store  *Store
}

// bumpGeneration marks the store as modified.
func (r baseRepository) bumpGeneration() {
	r.store.generation.Add(1)
}

// marshalJSON encodes v for storage in a text column. Nil slices encode as
// empty JSON arrays so the column default stays consistent.
func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

// unmarshalJSON decodes a text column into v, tolerating empty columns.
func unmarshalJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}

// nullableID converts a nullable integer column to *int.
func nullableID(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	id := int(v.Int64)
	return &id
}
