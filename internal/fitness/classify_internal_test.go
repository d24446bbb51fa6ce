package fitness

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/repforge/repforge/internal/store"
)

func TestClassifyMovement(t *testing.T) {
	testCases := []struct {
		name     string
		exercise store.Exercise
		want     MovementType
	}{
		{
			name:     "bench press is a push",
			exercise: store.Exercise{Name: "Barbell Bench Press", MuscleGroup: "Chest"},
			want:     MovementPush,
		},
		{
			name:     "row is a pull",
			exercise: store.Exercise{Name: "Dumbbell Row", MuscleGroup: "Back"},
			want:     MovementPull,
		},
		{
			name:     "lunge is a squat pattern",
			exercise: store.Exercise{Name: "Walking Lunge", MuscleGroup: "Legs"},
			want:     MovementSquat,
		},
		{
			name:     "deadlift is a hinge",
			exercise: store.Exercise{Name: "Romanian Deadlift", MuscleGroup: "Legs"},
			want:     MovementHinge,
		},
		{
			name:     "core beats push when both match",
			exercise: store.Exercise{Name: "Plank Press", MuscleGroup: "Core"},
			want:     MovementCore,
		},
		{
			name: "muscle labels match when the name does not",
			exercise: store.Exercise{
				Name:           "Pallof Hold",
				MuscleGroup:    "Core",
				PrimaryMuscles: []string{"obliques"},
			},
			want: MovementCore,
		},
		{
			name:     "unmatched exercise is isolation",
			exercise: store.Exercise{Name: "Neck Harness", MuscleGroup: "Neck"},
			want:     MovementIsolation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyMovement(tc.exercise); got != tc.want {
				t.Errorf("classifyMovement(%q) = %q, want %q", tc.exercise.Name, got, tc.want)
			}
		})
	}
}

func TestClassifyCompound(t *testing.T) {
	testCases := []struct {
		name     string
		exercise store.Exercise
		want     bool
	}{
		{
			name:     "compound keyword in name",
			exercise: store.Exercise{Name: "Back Squat"},
			want:     true,
		},
		{
			name: "three involved muscles",
			exercise: store.Exercise{
				Name:             "Burpee",
				PrimaryMuscles:   []string{"chest", "quads"},
				SecondaryMuscles: []string{"core"},
			},
			want: true,
		},
		{
			name:     "high MET value",
			exercise: store.Exercise{Name: "Battle Ropes", MET: 8},
			want:     true,
		},
		{
			name:     "small isolation move",
			exercise: store.Exercise{Name: "Wrist Roller", MET: 3, PrimaryMuscles: []string{"forearms"}},
			want:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyCompound(tc.exercise); got != tc.want {
				t.Errorf("classifyCompound(%q) = %v, want %v", tc.exercise.Name, got, tc.want)
			}
		})
	}
}

func TestClassifyDifficulty(t *testing.T) {
	testCases := []struct {
		name     string
		exercise store.Exercise
		want     Difficulty
	}{
		{
			name:     "advanced keyword wins over equipment",
			exercise: store.Exercise{Name: "Pistol Squat", Equipment: []string{"bodyweight"}},
			want:     DifficultyAdvanced,
		},
		{
			name:     "intermediate keyword",
			exercise: store.Exercise{Name: "Bulgarian Split Squat", Equipment: []string{"dumbbell"}},
			want:     DifficultyIntermediate,
		},
		{
			name:     "plain bodyweight defaults to beginner",
			exercise: store.Exercise{Name: "Air Squat", Equipment: []string{"bodyweight"}},
			want:     DifficultyBeginner,
		},
		{
			name:     "decline bodyweight variation is intermediate",
			exercise: store.Exercise{Name: "Decline Sit-Up", Equipment: []string{"none"}},
			want:     DifficultyIntermediate,
		},
		{
			name:     "assisted bodyweight variation is beginner",
			exercise: store.Exercise{Name: "Assisted Chin-Up", Equipment: []string{"bodyweight"}},
			want:     DifficultyBeginner,
		},
		{
			name:     "machine work is beginner",
			exercise: store.Exercise{Name: "Seated Leg Curl", Equipment: []string{"machine"}},
			want:     DifficultyBeginner,
		},
		{
			name:     "barbell work is intermediate",
			exercise: store.Exercise{Name: "Barbell Row", Equipment: []string{"barbell"}},
			want:     DifficultyIntermediate,
		},
		{
			name:     "unknown equipment defaults to intermediate",
			exercise: store.Exercise{Name: "Sled Drag", Equipment: []string{"sled"}},
			want:     DifficultyIntermediate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyDifficulty(tc.exercise); got != tc.want {
				t.Errorf("classifyDifficulty(%q) = %q, want %q", tc.exercise.Name, got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	exercise := store.Exercise{
		Name:             "Incline Dumbbell Press",
		MuscleGroup:      "Chest",
		Equipment:        []string{"dumbbell", "bench"},
		MET:              6,
		PrimaryMuscles:   []string{"chest"},
		SecondaryMuscles: []string{"triceps", "front delts"},
	}
	first := classify(exercise)
	second := classify(exercise)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("classify is not deterministic (-first +second):\n%s", diff)
	}
}
