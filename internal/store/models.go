// Package store implements the local-first record store over SQLite.
//
// It holds four collections (exercises, routines, workout logs, rest days)
// plus the bookkeeping tables used by sync. List-valued fields are stored as
// JSON-encoded text columns so that they round-trip unchanged through the
// remote relational backend.
package store

import (
	"log/slog"
	"strings"
	"time"

	"github.com/repforge/repforge/internal/errors"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.NewSentinel("record not found")

// Exercise execution types.
const (
	ExerciseTypeRep  = "rep"
	ExerciseTypeTime = "time"
)

// DefaultMET is assumed when an exercise has no MET value.
const DefaultMET = 5.0

// Exercise is a library entry. Immutable in normal app usage once seeded;
// created by seeding or sync pull.
type Exercise struct {
	ID               int      `json:"id"`
	UID              string   `json:"uid"`
	Name             string   `json:"name"`
	MuscleGroup      string   `json:"muscleGroup"`
	Equipment        []string `json:"equipment"`
	Type             string   `json:"type"`
	MET              float64  `json:"met"`
	Instructions     []string `json:"instructions,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles,omitempty"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
	Image            string   `json:"image,omitempty"`
}

// bodyweightSynonyms are the equipment labels that mean "no equipment needed".
var bodyweightSynonyms = map[string]bool{
	"bodyweight":  true,
	"body weight": true,
	"none":        true,
}

// IsBodyweight reports whether the exercise needs no equipment. That is the
// case exactly when the equipment list has a single entry that is a
// bodyweight synonym.
func (e Exercise) IsBodyweight() bool {
	return len(e.Equipment) == 1 && IsBodyweightEquipment(e.Equipment[0])
}

// IsBodyweightEquipment reports whether the label is a bodyweight synonym.
func IsBodyweightEquipment(label string) bool {
	return bodyweightSynonyms[strings.ToLower(strings.TrimSpace(label))]
}

// RoutineExercise is an exercise slot inside a routine section. It is a value
// embedded in the routine, never independently persisted.
type RoutineExercise struct {
	ExerciseID    int     `json:"exerciseId"`
	ExerciseName  string  `json:"exerciseName"`
	DefaultSets   int     `json:"defaultSets"`
	DefaultReps   int     `json:"defaultReps"`
	DefaultWeight float64 `json:"defaultWeight"`
}

// Routine is a named, user-authored workout plan. Section membership and
// order are meaningful: they are the execution order during a session.
type Routine struct {
	ID        int               `json:"id"`
	UID       string            `json:"uid"`
	Name      string            `json:"name"`
	Warmups   []RoutineExercise `json:"warmups"`
	Workouts  []RoutineExercise `json:"workouts"`
	Stretches []RoutineExercise `json:"stretches"`
}

// SetLog is one performed set. Completed gates whether the set counts toward
// volume, streak, and PR calculations.
type SetLog struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// Volume is weight × reps, the scalar basis for PR comparison.
func (s SetLog) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ExerciseLog groups the sets performed for one exercise during a session.
type ExerciseLog struct {
	ExerciseID   int      `json:"exerciseId"`
	ExerciseName string   `json:"exerciseName"`
	Sets         []SetLog `json:"sets"`
}

// Substitution records an exercise swap applied during a session.
type Substitution struct {
	FromExerciseID int    `json:"fromExerciseId"`
	ToExerciseID   int    `json:"toExerciseId"`
	Reason         string `json:"reason,omitempty"`
}

// SessionData is the typed payload of a workout log. The original client kept
// this as an untyped blob; it is validated at the store boundary instead of
// being re-checked by every consumer.
type SessionData struct {
	DurationSeconds int            `json:"durationSeconds"`
	ExerciseLogs    []ExerciseLog  `json:"exerciseLogs"`
	Substitutions   []Substitution `json:"substitutions,omitempty"`
}

// Validate checks the structural soundness of the payload. Missing weights or
// reps are tolerated (they contribute zero to aggregates), but negative values
// and empty exercise names are rejected.
func (d SessionData) Validate() error {
	if d.DurationSeconds < 0 {
		return errors.Wrap(ErrInvalidSessionData, "negative duration")
	}
	for i, exLog := range d.ExerciseLogs {
		if exLog.ExerciseName == "" {
			return errors.Wrap(ErrInvalidSessionData, "exercise log missing name")
		}
		for j, set := range exLog.Sets {
			if set.Weight < 0 {
				return errors.Wrap(ErrInvalidSessionData, "negative weight",
					slog.Int("exerciseLog", i), slog.Int("set", j))
			}
			if set.Reps < 0 {
				return errors.Wrap(ErrInvalidSessionData, "negative reps",
					slog.Int("exerciseLog", i), slog.Int("set", j))
			}
		}
	}
	return nil
}

// ErrInvalidSessionData flags a structurally broken session payload.
var ErrInvalidSessionData = errors.NewSentinel("invalid session data")

// WorkoutLog is one completed session. Immutable after creation except for
// sync-driven overwrite. RoutineID is a weak back-reference used for lookup
// only.
type WorkoutLog struct {
	ID        int         `json:"id"`
	UID       string      `json:"uid"`
	Date      time.Time   `json:"date"`
	RoutineID *int        `json:"routineId,omitempty"`
	Data      SessionData `json:"data"`
}

// Rest day types.
const (
	RestDayPassive = "passive"
	RestDayActive  = "active"
)

// RestDay is a logged recovery day, used only by the recovery score calculator.
type RestDay struct {
	ID         int       `json:"id"`
	UID        string    `json:"uid"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`
	Notes      string    `json:"notes,omitempty"`
	Activities []string  `json:"activities,omitempty"`
}

// User is a registered account for the sync backend.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
