package fitness

import (
	"testing"
	"time"

	"github.com/repforge/repforge/internal/ptr"
	"github.com/repforge/repforge/internal/store"
)

func routineNamed(id int, name string) store.Routine {
	return store.Routine{ID: id, Name: name}
}

func routineLog(date time.Time, routineID int, exerciseName string) store.WorkoutLog {
	return store.WorkoutLog{
		Date:      date,
		RoutineID: ptr.Ref(routineID),
		Data: store.SessionData{
			ExerciseLogs: []store.ExerciseLog{
				{ExerciseID: 1, ExerciseName: exerciseName, Sets: []store.SetLog{{Weight: 60, Reps: 8, Completed: true}}},
			},
		},
	}
}

func TestWorkoutRecommendations_emptyHistory(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	got := workoutRecommendations(nil, []store.Routine{routineNamed(1, "Push Day")}, now)

	if len(got) != 1 {
		t.Fatalf("want exactly 1 recommendation for empty history, got %d", len(got))
	}
	if got[0].Type != RecommendRoutine || got[0].Priority != PriorityHigh {
		t.Errorf("want a high-priority routine nudge, got %+v", got[0])
	}
}

func TestWorkoutRecommendations_overtrainingShortCircuits(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	var logs []store.WorkoutLog
	for offset := 0; offset < 5; offset++ {
		logs = append(logs, routineLog(now.AddDate(0, 0, -offset), 1, "Bench Press"))
	}

	got := workoutRecommendations(logs, []store.Routine{routineNamed(1, "Push Day")}, now)
	if len(got) != 1 {
		t.Fatalf("want only the rest recommendation, got %d: %+v", len(got), got)
	}
	if got[0].Type != RecommendRest || got[0].Priority != PriorityHigh {
		t.Errorf("want a high-priority rest recommendation, got %+v", got[0])
	}
}

func TestWorkoutRecommendations_comebackAfterBreak(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	logs := []store.WorkoutLog{routineLog(now.AddDate(0, 0, -10), 1, "Bench Press")}

	got := workoutRecommendations(logs, nil, now)
	if len(got) == 0 {
		t.Fatal("want at least one recommendation")
	}
	if got[0].Title != "Welcome back" || got[0].Priority != PriorityHigh {
		t.Errorf("want the comeback nudge first, got %+v", got[0])
	}
}

func TestWorkoutRecommendations_momentumNudgeAfterTwoDays(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	logs := []store.WorkoutLog{routineLog(now.AddDate(0, 0, -2), 1, "Bench Press")}

	got := workoutRecommendations(logs, nil, now)
	if len(got) == 0 {
		t.Fatal("want at least one recommendation")
	}
	if got[0].Title != "Keep the momentum" {
		t.Errorf("want the momentum nudge first, got %+v", got[0])
	}
}

func TestWorkoutRecommendations_rotationSuggestsNeglectedBuckets(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	// Chest trained today; everything else untrained.
	logs := []store.WorkoutLog{routineLog(now, 1, "Bench Press")}
	routines := []store.Routine{
		routineNamed(1, "Push Day"),
		routineNamed(2, "Leg Day"),
		routineNamed(3, "Back and Biceps"),
		routineNamed(4, "Core Blast"),
	}

	got := workoutRecommendations(logs, routines, now)
	for _, rec := range got {
		if rec.RoutineName == "Push Day" && rec.Type == RecommendRoutine && rec.Title == "Train chest" {
			t.Errorf("chest was just trained but still recommended: %+v", rec)
		}
	}

	foundNeglected := false
	for _, rec := range got {
		if rec.RoutineID != nil && *rec.RoutineID != 1 {
			foundNeglected = true
		}
	}
	if !foundNeglected {
		t.Errorf("want a routine for a neglected muscle bucket, got %+v", got)
	}
}

func TestWorkoutRecommendations_favoriteFallback(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	// A quiet week: one recent workout, no matching routines for rotation.
	logs := []store.WorkoutLog{
		routineLog(now.AddDate(0, 0, -1), 7, "Neck Harness"),
		routineLog(now.AddDate(0, 0, -40), 7, "Neck Harness"),
		routineLog(now.AddDate(0, 0, -41), 7, "Neck Harness"),
	}
	routines := []store.Routine{routineNamed(7, "Morning Mix")}

	got := workoutRecommendations(logs, routines, now)
	found := false
	for _, rec := range got {
		if rec.RoutineID != nil && *rec.RoutineID == 7 && rec.Priority == PriorityLow {
			found = true
		}
	}
	if !found {
		t.Errorf("want the favorite routine as low-priority fallback, got %+v", got)
	}
}

func TestWorkoutRecommendations_cappedAndDeduped(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	logs := []store.WorkoutLog{routineLog(now.AddDate(0, 0, -10), 1, "Bench Press")}
	var routines []store.Routine
	for id := 1; id <= 10; id++ {
		routines = append(routines,
			routineNamed(id, "Leg Day"),
			routineNamed(id+100, "Back Day"),
			routineNamed(id+200, "Core Day"),
		)
	}

	got := workoutRecommendations(logs, routines, now)
	if len(got) > maxRecommendations {
		t.Errorf("got %d recommendations, cap is %d", len(got), maxRecommendations)
	}

	seen := make(map[int]bool)
	for _, rec := range got {
		if rec.RoutineID == nil {
			continue
		}
		if seen[*rec.RoutineID] {
			t.Errorf("routine %d recommended twice", *rec.RoutineID)
		}
		seen[*rec.RoutineID] = true
	}
}
