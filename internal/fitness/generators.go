package fitness

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/repforge/repforge/internal/store"
)

// Per-slot defaults. Compound lifts get more sets, fewer reps, and longer
// rest than accessories.
const (
	compoundSets        = 4
	compoundReps        = 6
	compoundRestSeconds = 120

	accessorySets        = 3
	accessoryReps        = 10
	accessoryRestSeconds = 60

	beginnerSets        = 3
	beginnerReps        = 10
	beginnerRestSeconds = 90

	// Rough seconds of work per set, used for duration estimates.
	secondsPerSet = 45
)

// Template generator names.
const (
	TemplateFullBodyBeginner = "full-body-beginner"
	TemplateBodyweightOnly   = "bodyweight-only"
	TemplateDumbbellOnly     = "dumbbell-only"
	TemplatePushDay          = "ppl-push"
	TemplatePullDay          = "ppl-pull"
	TemplateLegDay           = "ppl-legs"
	TemplateUpperBody        = "upper-body"
	TemplateLowerBody        = "lower-body"
)

// templateGenerator builds one template profile from a classified pool, or
// returns nil when the pool cannot satisfy the profile's minimum count.
type templateGenerator func(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate

// generators maps template names to their builders.
var generators = map[string]templateGenerator{
	TemplateFullBodyBeginner: generateFullBodyBeginner,
	TemplateBodyweightOnly:   generateBodyweightOnly,
	TemplateDumbbellOnly:     generateDumbbellOnly,
	TemplatePushDay:          generatePushDay,
	TemplatePullDay:          generatePullDay,
	TemplateLegDay:           generateLegDay,
	TemplateUpperBody:        generateUpperBody,
	TemplateLowerBody:        generateLowerBody,
}

// GenerateTemplate runs the named generator over the current exercise
// library. A nil template means the library cannot satisfy the profile right
// now, not an error.
func (s Service) GenerateTemplate(ctx context.Context, name string) (*GeneratedTemplate, error) {
	generate, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	pool, err := s.BuildExercisePool(ctx)
	if err != nil {
		return nil, err
	}
	return generate(s.rng, pool), nil
}

// GenerateAllTemplates runs every generator and returns the templates the
// current library can satisfy.
func (s Service) GenerateAllTemplates(ctx context.Context) ([]GeneratedTemplate, error) {
	pool, err := s.BuildExercisePool(ctx)
	if err != nil {
		return nil, err
	}
	names := []string{
		TemplateFullBodyBeginner, TemplateBodyweightOnly, TemplateDumbbellOnly,
		TemplatePushDay, TemplatePullDay, TemplateLegDay,
		TemplateUpperBody, TemplateLowerBody,
	}
	var templates []GeneratedTemplate
	for _, name := range names {
		if template := generators[name](s.rng, pool); template != nil {
			templates = append(templates, *template)
		}
	}
	return templates, nil
}

// generateFullBodyBeginner picks one beginner-friendly exercise per major
// movement pattern.
func generateFullBodyBeginner(_ *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	const minExercises = 4
	movements := []MovementType{MovementSquat, MovementHinge, MovementPush, MovementPull, MovementCore}

	var selected []ClassifiedExercise
	for _, movement := range movements {
		candidates := filterExercises(pool, FilterCriteria{
			Movements:    []MovementType{movement},
			Difficulties: []Difficulty{DifficultyBeginner, DifficultyIntermediate},
			ExcludeIDs:   exerciseIDs(selected),
		})
		if best := selectBest(candidates); best != nil {
			selected = append(selected, *best)
		}
	}
	if len(selected) < minExercises {
		return nil
	}

	return assembleTemplate(templateProfile{
		id:          TemplateFullBodyBeginner,
		name:        "Full Body Foundations",
		description: "One exercise per movement pattern, three times a week.",
		difficulty:  DifficultyBeginner,
		frequency:   "3x / week",
		goal:        "general fitness",
		tags:        []string{"full-body", "beginner"},
		sets:        beginnerSets,
		reps:        beginnerReps,
		restSeconds: beginnerRestSeconds,
	}, selected)
}

// generateBodyweightOnly builds an equipment-free session.
func generateBodyweightOnly(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	const (
		targetExercises = 6
		minExercises    = 4
	)
	candidates := filterExercises(pool, FilterCriteria{Equipment: []string{"bodyweight"}})
	selected := selectMultiple(rng, candidates, targetExercises, true)
	if len(selected) < minExercises {
		return nil
	}

	return assembleTemplate(templateProfile{
		id:          TemplateBodyweightOnly,
		name:        "No-Equipment Circuit",
		description: "A full session using nothing but your own weight.",
		difficulty:  DifficultyBeginner,
		frequency:   "3-4x / week",
		goal:        "general fitness",
		tags:        []string{"full-body", "bodyweight", "home"},
		sets:        accessorySets,
		reps:        accessoryReps,
		restSeconds: accessoryRestSeconds,
	}, selected)
}

// generateDumbbellOnly builds a session for a pair of dumbbells.
func generateDumbbellOnly(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	const (
		targetExercises = 6
		minExercises    = 4
	)
	candidates := filterExercises(pool, FilterCriteria{
		Equipment: []string{"dumbbell", "dumbbells"},
	})
	selected := selectMultiple(rng, candidates, targetExercises, true)
	if len(selected) < minExercises {
		return nil
	}

	return assembleTemplate(templateProfile{
		id:          TemplateDumbbellOnly,
		name:        "Dumbbell Full Body",
		description: "Everything you need with a single pair of dumbbells.",
		difficulty:  DifficultyIntermediate,
		frequency:   "3x / week",
		goal:        "strength",
		tags:        []string{"full-body", "dumbbell", "home"},
		sets:        accessorySets,
		reps:        accessoryReps,
		restSeconds: accessoryRestSeconds,
	}, selected)
}

func generatePushDay(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	return generateMovementDay(rng, pool, movementDayProfile{
		id:          TemplatePushDay,
		name:        "Push/Pull/Legs: Push Day",
		description: "Chest, shoulders, and triceps pressing work.",
		tags:        []string{"ppl", "push"},
		movements:   []MovementType{MovementPush},
	})
}

func generatePullDay(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	return generateMovementDay(rng, pool, movementDayProfile{
		id:          TemplatePullDay,
		name:        "Push/Pull/Legs: Pull Day",
		description: "Back and biceps rowing and pulling work.",
		tags:        []string{"ppl", "pull"},
		movements:   []MovementType{MovementPull},
	})
}

func generateLegDay(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	return generateMovementDay(rng, pool, movementDayProfile{
		id:          TemplateLegDay,
		name:        "Push/Pull/Legs: Leg Day",
		description: "Squat and hinge patterns for the lower body.",
		tags:        []string{"ppl", "legs"},
		movements:   []MovementType{MovementSquat, MovementHinge},
	})
}

func generateUpperBody(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	return generateMovementDay(rng, pool, movementDayProfile{
		id:          TemplateUpperBody,
		name:        "Upper/Lower: Upper Body",
		description: "Balanced pressing and pulling for the upper body.",
		tags:        []string{"upper-lower", "upper"},
		movements:   []MovementType{MovementPush, MovementPull},
		target:      6,
	})
}

func generateLowerBody(rng *rand.Rand, pool []ClassifiedExercise) *GeneratedTemplate {
	return generateMovementDay(rng, pool, movementDayProfile{
		id:          TemplateLowerBody,
		name:        "Upper/Lower: Lower Body",
		description: "Squat and hinge patterns plus core stability.",
		tags:        []string{"upper-lower", "lower"},
		movements:   []MovementType{MovementSquat, MovementHinge, MovementCore},
		target:      6,
	})
}

type movementDayProfile struct {
	id          string
	name        string
	description string
	tags        []string
	movements   []MovementType
	target      int
}

func generateMovementDay(rng *rand.Rand, pool []ClassifiedExercise, profile movementDayProfile) *GeneratedTemplate {
	const (
		defaultTarget = 5
		minExercises  = 3
	)
	target := profile.target
	if target == 0 {
		target = defaultTarget
	}
	candidates := filterExercises(pool, FilterCriteria{Movements: profile.movements})
	selected := selectMultiple(rng, candidates, target, true)
	if len(selected) < minExercises {
		return nil
	}

	return assembleTemplate(templateProfile{
		id:          profile.id,
		name:        profile.name,
		description: profile.description,
		difficulty:  DifficultyIntermediate,
		frequency:   "per split rotation",
		goal:        "strength",
		tags:        profile.tags,
		sets:        accessorySets,
		reps:        accessoryReps,
		restSeconds: accessoryRestSeconds,
	}, selected)
}

// templateProfile holds the fixed metadata and accessory defaults of a
// generator.
type templateProfile struct {
	id          string
	name        string
	description string
	difficulty  Difficulty
	frequency   string
	goal        string
	tags        []string
	sets        int
	reps        int
	restSeconds int
}

func assembleTemplate(profile templateProfile, selected []ClassifiedExercise) *GeneratedTemplate {
	exercises := make([]TemplateExercise, 0, len(selected))
	totalSeconds := 0
	for _, exercise := range selected {
		slot := TemplateExercise{
			ExerciseID:   exercise.ID,
			ExerciseName: exercise.Name,
			Sets:         profile.sets,
			Reps:         profile.reps,
			RestSeconds:  profile.restSeconds,
		}
		if exercise.Compound {
			slot.Sets = compoundSets
			slot.Reps = compoundReps
			slot.RestSeconds = compoundRestSeconds
		}
		if exercise.Type == store.ExerciseTypeTime {
			// Time-based work has no rep target.
			slot.Reps = 0
		}
		exercises = append(exercises, slot)
		totalSeconds += slot.Sets * (slot.RestSeconds + secondsPerSet)
	}

	return &GeneratedTemplate{
		ID:                profile.id,
		Name:              profile.name,
		Description:       profile.description,
		Difficulty:        profile.difficulty,
		Equipment:         aggregateEquipment(selected),
		EstimatedDuration: totalSeconds / 60,
		Frequency:         profile.frequency,
		Goal:              profile.goal,
		Tags:              profile.tags,
		Exercises:         exercises,
	}
}

func exerciseIDs(exercises []ClassifiedExercise) []int {
	ids := make([]int, 0, len(exercises))
	for _, exercise := range exercises {
		ids = append(ids, exercise.ID)
	}
	return ids
}
