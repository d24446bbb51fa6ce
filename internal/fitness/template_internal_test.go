package fitness

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/repforge/repforge/internal/store"
)

// templatePool builds a classified library large enough for every generator.
func templatePool() []ClassifiedExercise {
	exercises := []store.Exercise{
		{ID: 1, Name: "Barbell Bench Press", MuscleGroup: "Chest", Equipment: []string{"barbell", "bench"}, MET: 6, Type: store.ExerciseTypeRep},
		{ID: 2, Name: "Overhead Press", MuscleGroup: "Shoulders", Equipment: []string{"barbell"}, MET: 6, Type: store.ExerciseTypeRep},
		{ID: 3, Name: "Push-Up", MuscleGroup: "Chest", Equipment: []string{"bodyweight"}, MET: 8, Type: store.ExerciseTypeRep},
		{ID: 4, Name: "Dip", MuscleGroup: "Chest", Equipment: []string{"bodyweight"}, MET: 5, Type: store.ExerciseTypeRep},
		{ID: 5, Name: "Barbell Row", MuscleGroup: "Back", Equipment: []string{"barbell"}, MET: 6, Type: store.ExerciseTypeRep},
		{ID: 6, Name: "Pull-Up", MuscleGroup: "Back", Equipment: []string{"bodyweight"}, MET: 8, Type: store.ExerciseTypeRep},
		{ID: 7, Name: "Dumbbell Row", MuscleGroup: "Back", Equipment: []string{"dumbbell"}, MET: 5, Type: store.ExerciseTypeRep},
		{ID: 8, Name: "Back Squat", MuscleGroup: "Legs", Equipment: []string{"barbell"}, MET: 6, Type: store.ExerciseTypeRep},
		{ID: 9, Name: "Goblet Squat", MuscleGroup: "Legs", Equipment: []string{"dumbbell"}, MET: 5, Type: store.ExerciseTypeRep},
		{ID: 10, Name: "Walking Lunge", MuscleGroup: "Legs", Equipment: []string{"bodyweight"}, MET: 5, Type: store.ExerciseTypeRep},
		{ID: 11, Name: "Romanian Deadlift", MuscleGroup: "Legs", Equipment: []string{"barbell"}, MET: 6, Type: store.ExerciseTypeRep},
		{ID: 12, Name: "Dumbbell Deadlift", MuscleGroup: "Legs", Equipment: []string{"dumbbell"}, MET: 5, Type: store.ExerciseTypeRep},
		{ID: 13, Name: "Glute Bridge", MuscleGroup: "Legs", Equipment: []string{"bodyweight"}, MET: 4, Type: store.ExerciseTypeRep},
		{ID: 14, Name: "Plank", MuscleGroup: "Core", Equipment: []string{"bodyweight"}, MET: 4, Type: store.ExerciseTypeTime},
		{ID: 15, Name: "Crunch", MuscleGroup: "Core", Equipment: []string{"bodyweight"}, MET: 4, Type: store.ExerciseTypeRep},
		{ID: 16, Name: "Dumbbell Curl", MuscleGroup: "Arms", Equipment: []string{"dumbbell"}, MET: 3, Type: store.ExerciseTypeRep},
		{ID: 17, Name: "Lateral Raise", MuscleGroup: "Shoulders", Equipment: []string{"dumbbell"}, MET: 3, Type: store.ExerciseTypeRep},
	}
	pool := make([]ClassifiedExercise, 0, len(exercises))
	for _, exercise := range exercises {
		pool = append(pool, classify(exercise))
	}
	return pool
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSelectBest(t *testing.T) {
	pool := templatePool()

	best := selectBest(pool)
	if best == nil {
		t.Fatal("want a selection from a non-empty pool")
	}
	if !best.Compound {
		t.Errorf("want a compound pick, got %q", best.Name)
	}
	for _, exercise := range pool {
		if exercise.Compound && exercise.MET > best.MET {
			t.Errorf("pick %q (MET %v) is not the highest-MET compound, %q has %v",
				best.Name, best.MET, exercise.Name, exercise.MET)
		}
	}

	if got := selectBest(nil); got != nil {
		t.Errorf("want nil for empty pool, got %v", got)
	}

	isolationOnly := filterExercises(pool, FilterCriteria{})
	var noCompound []ClassifiedExercise
	for _, exercise := range isolationOnly {
		if !exercise.Compound {
			noCompound = append(noCompound, exercise)
		}
	}
	if len(noCompound) > 0 {
		fallback := selectBest(noCompound)
		if fallback == nil || fallback.ID != noCompound[0].ID {
			t.Error("want first element as fallback when no compound exists")
		}
	}
}

func TestSelectMultiple(t *testing.T) {
	pool := templatePool()

	selected := selectMultiple(testRNG(), pool, 5, true)
	if len(selected) != 5 {
		t.Fatalf("want 5 selections, got %d", len(selected))
	}

	seen := make(map[int]bool)
	compounds := 0
	for _, exercise := range selected {
		if seen[exercise.ID] {
			t.Errorf("exercise %d selected twice", exercise.ID)
		}
		seen[exercise.ID] = true
		if exercise.Compound {
			compounds++
		}
	}
	// ceil(5*0.6) = 3 slots are reserved for compounds first.
	if compounds < 3 {
		t.Errorf("want at least 3 compound picks, got %d", compounds)
	}
}

func TestSelectMultiple_seededRNGIsReproducible(t *testing.T) {
	pool := templatePool()
	first := selectMultiple(testRNG(), pool, 6, true)
	second := selectMultiple(testRNG(), pool, 6, true)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different selections (-first +second):\n%s", diff)
	}
}

func TestGenerators_produceViableTemplates(t *testing.T) {
	pool := templatePool()
	testCases := []struct {
		name     string
		generate templateGenerator
	}{
		{TemplateFullBodyBeginner, generateFullBodyBeginner},
		{TemplateBodyweightOnly, generateBodyweightOnly},
		{TemplateDumbbellOnly, generateDumbbellOnly},
		{TemplatePushDay, generatePushDay},
		{TemplatePullDay, generatePullDay},
		{TemplateLegDay, generateLegDay},
		{TemplateUpperBody, generateUpperBody},
		{TemplateLowerBody, generateLowerBody},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			template := tc.generate(testRNG(), pool)
			if template == nil {
				t.Fatal("want a template from a well-stocked pool, got nil")
			}
			if template.ID != tc.name {
				t.Errorf("template id = %q, want %q", template.ID, tc.name)
			}
			if len(template.Exercises) < 3 {
				t.Errorf("template has %d exercises, want at least 3", len(template.Exercises))
			}
			if template.EstimatedDuration <= 0 {
				t.Error("want a positive duration estimate")
			}
			for _, slot := range template.Exercises {
				if slot.Sets < 1 {
					t.Errorf("slot %s has %d sets", slot.ExerciseName, slot.Sets)
				}
			}
		})
	}
}

func TestGenerators_returnNilOnThinPool(t *testing.T) {
	thin := []ClassifiedExercise{
		classify(store.Exercise{ID: 1, Name: "Push-Up", MuscleGroup: "Chest", Equipment: []string{"bodyweight"}}),
	}
	if template := generateBodyweightOnly(testRNG(), thin); template != nil {
		t.Errorf("want nil from a one-exercise pool, got %q", template.Name)
	}
	if template := generateDumbbellOnly(testRNG(), thin); template != nil {
		t.Errorf("want nil when no dumbbell work exists, got %q", template.Name)
	}
}

func TestGenerateBodyweightOnly_usesNoEquipment(t *testing.T) {
	template := generateBodyweightOnly(testRNG(), templatePool())
	if template == nil {
		t.Fatal("want a bodyweight template")
	}
	if len(template.Equipment) != 0 {
		t.Errorf("bodyweight template lists equipment %v", template.Equipment)
	}
}

func TestAssembleTemplate_timeBasedSlotsHaveNoReps(t *testing.T) {
	plank := classify(store.Exercise{ID: 14, Name: "Plank", MuscleGroup: "Core",
		Equipment: []string{"bodyweight"}, Type: store.ExerciseTypeTime})
	template := assembleTemplate(templateProfile{
		id: "test", name: "test", sets: 3, reps: 10, restSeconds: 60,
	}, []ClassifiedExercise{plank})
	if got := template.Exercises[0].Reps; got != 0 {
		t.Errorf("time-based slot reps = %d, want 0", got)
	}
}
