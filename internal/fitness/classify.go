// Package fitness implements the analytics engine: exercise classification,
// substitution scoring, template generation and validation, and the derived
// metrics (streaks, personal records, overload suggestions, recovery scores,
// recommendations) computed from workout history.
//
// Every calculation is a pure function over records already fetched from the
// store. Service wraps them with the bulk reads and memoization.
package fitness

import (
	"strings"

	"github.com/repforge/repforge/internal/store"
)

// ClassifiedExercise is an exercise annotated with its derived movement
// pattern, compound flag, and difficulty tier.
type ClassifiedExercise struct {
	store.Exercise

	Movement   MovementType `json:"movement"`
	Compound   bool         `json:"compound"`
	Difficulty Difficulty   `json:"difficulty"`
}

// Classify derives the movement pattern, compound flag, and difficulty tier
// for an exercise. It is deterministic given the same keyword tables.
func (Service) Classify(exercise store.Exercise) ClassifiedExercise {
	return classify(exercise)
}

func classify(exercise store.Exercise) ClassifiedExercise {
	return ClassifiedExercise{
		Exercise:   exercise,
		Movement:   classifyMovement(exercise),
		Compound:   classifyCompound(exercise),
		Difficulty: classifyDifficulty(exercise),
	}
}

// classifyMovement walks the pattern chain in order and returns the first
// match. Exercises matching no pattern are isolation work.
func classifyMovement(exercise store.Exercise) MovementType {
	name := strings.ToLower(exercise.Name)
	muscles := append([]string{exercise.MuscleGroup}, exercise.PrimaryMuscles...)
	for _, rule := range movementPatterns {
		if containsAny(name, rule.keywords) || intersectsAny(muscles, rule.muscles) {
			return rule.movement
		}
	}
	return MovementIsolation
}

// classifyCompound marks multi-joint lifts: a compound name keyword, three or
// more involved muscles, or a high MET value.
func classifyCompound(exercise store.Exercise) bool {
	if containsAny(strings.ToLower(exercise.Name), compoundKeywords) {
		return true
	}
	if len(exercise.PrimaryMuscles)+len(exercise.SecondaryMuscles) >= compoundMuscleCount {
		return true
	}
	return exercise.MET >= compoundMET
}

// classifyDifficulty resolves the tier by ordered precedence: advanced name
// keywords, then intermediate ones, then an equipment-based default.
func classifyDifficulty(exercise store.Exercise) Difficulty {
	name := strings.ToLower(exercise.Name)
	if containsAny(name, advancedKeywords) {
		return DifficultyAdvanced
	}
	if containsAny(name, intermediateKeywords) {
		return DifficultyIntermediate
	}
	return equipmentDifficulty(exercise, name)
}

func equipmentDifficulty(exercise store.Exercise, name string) Difficulty {
	if exercise.IsBodyweight() {
		switch {
		case strings.Contains(name, "weighted"), strings.Contains(name, "decline"):
			return DifficultyIntermediate
		case strings.Contains(name, "assisted"), strings.Contains(name, "incline"):
			return DifficultyBeginner
		default:
			return DifficultyBeginner
		}
	}
	for _, equipment := range exercise.Equipment {
		lower := strings.ToLower(equipment)
		switch {
		case strings.Contains(lower, "machine"), strings.Contains(lower, "cable"):
			return DifficultyBeginner
		case strings.Contains(lower, "dumbbell"), strings.Contains(lower, "barbell"):
			return DifficultyIntermediate
		}
	}
	return DifficultyIntermediate
}
