package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/repforge/repforge/internal/sqlite"
	"github.com/repforge/repforge/internal/store"
	"github.com/repforge/repforge/internal/testhelpers"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close test database: %v", closeErr)
		}
	})
	return store.New(db, logger)
}

func TestExerciseRepository_roundTrip(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	created, err := s.Exercises.Create(ctx, store.Exercise{
		Name:             "Barbell Bench Press",
		MuscleGroup:      "Chest",
		Equipment:        []string{"barbell", "bench"},
		PrimaryMuscles:   []string{"chest"},
		SecondaryMuscles: []string{"triceps", "front delts"},
	})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	if created.ID == 0 {
		t.Error("want assigned id, got 0")
	}
	if created.UID == "" {
		t.Error("want generated uid, got empty")
	}
	if created.Type != store.ExerciseTypeRep {
		t.Errorf("want default type %q, got %q", store.ExerciseTypeRep, created.Type)
	}
	if created.MET != store.DefaultMET {
		t.Errorf("want default MET %v, got %v", store.DefaultMET, created.MET)
	}

	got, err := s.Exercises.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get exercise: %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("exercise mismatch (-want +got):\n%s", diff)
	}

	if _, err = s.Exercises.Get(ctx, created.ID+1000); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want ErrNotFound for missing exercise, got %v", err)
	}
}

func TestExerciseRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	exercise := store.Exercise{
		UID:         "ex-uid-1",
		Name:        "Push Up",
		MuscleGroup: "Chest",
		Equipment:   []string{"bodyweight"},
		Type:        store.ExerciseTypeRep,
		MET:         8,
	}
	first, err := s.Exercises.Upsert(ctx, exercise)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	exercise.Name = "Push-Up"
	second, err := s.Exercises.Upsert(ctx, exercise)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("want upsert to reuse id %d, got %d", first.ID, second.ID)
	}

	all, err := s.Exercises.List(ctx)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("want 1 exercise after repeated upsert, got %d", len(all))
	}
	if all[0].Name != "Push-Up" {
		t.Errorf("want updated name Push-Up, got %q", all[0].Name)
	}
}

func TestRoutineRepository_deleteRecordsTombstone(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	routine, err := s.Routines.Create(ctx, store.Routine{
		Name: "Push Day",
		Workouts: []store.RoutineExercise{
			{ExerciseID: 1, ExerciseName: "Bench Press", DefaultSets: 3, DefaultReps: 8, DefaultWeight: 60},
		},
	})
	if err != nil {
		t.Fatalf("create routine: %v", err)
	}

	got, err := s.Routines.Get(ctx, routine.ID)
	if err != nil {
		t.Fatalf("get routine: %v", err)
	}
	if diff := cmp.Diff(routine, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("routine mismatch (-want +got):\n%s", diff)
	}

	if err = s.Routines.Delete(ctx, routine.ID); err != nil {
		t.Fatalf("delete routine: %v", err)
	}
	if _, err = s.Routines.Get(ctx, routine.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}

	deleted, err := s.Routines.DeletedIDs(ctx)
	if err != nil {
		t.Fatalf("list deleted ids: %v", err)
	}
	if diff := cmp.Diff([]int{routine.ID}, deleted); diff != "" {
		t.Errorf("deleted ids mismatch (-want +got):\n%s", diff)
	}

	if err = s.Routines.ClearDeletedIDs(ctx); err != nil {
		t.Fatalf("clear deleted ids: %v", err)
	}
	deleted, err = s.Routines.DeletedIDs(ctx)
	if err != nil {
		t.Fatalf("list deleted ids after clear: %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("want no deleted ids after clear, got %v", deleted)
	}
}

func TestWorkoutLogRepository_validatesSessionData(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	_, err := s.Logs.Create(ctx, store.WorkoutLog{
		Date: time.Now(),
		Data: store.SessionData{
			ExerciseLogs: []store.ExerciseLog{
				{ExerciseName: "Squat", Sets: []store.SetLog{{Weight: -10, Reps: 5, Completed: true}}},
			},
		},
	})
	if !errors.Is(err, store.ErrInvalidSessionData) {
		t.Errorf("want ErrInvalidSessionData for negative weight, got %v", err)
	}
}

func TestWorkoutLogRepository_ListRange(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	dates := []time.Time{
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
	for _, date := range dates {
		if _, err := s.Logs.Create(ctx, store.WorkoutLog{
			Date: date,
			Data: store.SessionData{
				DurationSeconds: 1800,
				ExerciseLogs: []store.ExerciseLog{
					{ExerciseName: "Squat", Sets: []store.SetLog{{Weight: 80, Reps: 5, Completed: true}}},
				},
			},
		}); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	got, err := s.Logs.ListRange(ctx,
		time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 log in range, got %d", len(got))
	}
	if !got[0].Date.Equal(dates[1]) {
		t.Errorf("want log dated %v, got %v", dates[1], got[0].Date)
	}
}

func TestWorkoutLogRepository_ListByRoutine(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	routine, err := s.Routines.Create(ctx, store.Routine{Name: "Leg Day"})
	if err != nil {
		t.Fatalf("create routine: %v", err)
	}

	if _, err = s.Logs.Create(ctx, store.WorkoutLog{
		Date:      time.Now(),
		RoutineID: &routine.ID,
		Data:      store.SessionData{DurationSeconds: 600},
	}); err != nil {
		t.Fatalf("create linked log: %v", err)
	}
	if _, err = s.Logs.Create(ctx, store.WorkoutLog{
		Date: time.Now(),
		Data: store.SessionData{DurationSeconds: 600},
	}); err != nil {
		t.Fatalf("create unlinked log: %v", err)
	}

	got, err := s.Logs.ListByRoutine(ctx, routine.ID)
	if err != nil {
		t.Fatalf("list by routine: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 log for routine, got %d", len(got))
	}
	if got[0].RoutineID == nil || *got[0].RoutineID != routine.ID {
		t.Errorf("want routine id %d, got %v", routine.ID, got[0].RoutineID)
	}
}

func TestRestDayRepository_roundTrip(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	day, err := s.RestDays.Create(ctx, store.RestDay{
		Date:       time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Type:       store.RestDayActive,
		Notes:      "light walk",
		Activities: []string{"walking"},
	})
	if err != nil {
		t.Fatalf("create rest day: %v", err)
	}

	all, err := s.RestDays.List(ctx)
	if err != nil {
		t.Fatalf("list rest days: %v", err)
	}
	if diff := cmp.Diff([]store.RestDay{day}, all); diff != "" {
		t.Errorf("rest days mismatch (-want +got):\n%s", diff)
	}
}

func TestUserRepository_rejectsDuplicateUsername(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	if _, err := s.Users.Create(ctx, "lifter", "hash1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.Users.Create(ctx, "lifter", "hash2"); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("want ErrUsernameTaken, got %v", err)
	}

	user, err := s.Users.GetByUsername(ctx, "lifter")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.PasswordHash != "hash1" {
		t.Errorf("want original password hash, got %q", user.PasswordHash)
	}
}

func TestStore_generationBumpsOnWrite(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	before := s.Generation()
	if _, err := s.Exercises.Create(ctx, store.Exercise{Name: "Plank", MuscleGroup: "Core"}); err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	if after := s.Generation(); after <= before {
		t.Errorf("want generation to increase past %d, got %d", before, after)
	}
}
