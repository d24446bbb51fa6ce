package fitness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/repforge/repforge/internal/store"
)

// Validation sanity bands.
const (
	minRecommendedExercises = 3
	maxRecommendedExercises = 10
	minSaneRestSeconds      = 30
	maxSaneRestSeconds      = 300
	minFullBodyMovements    = 3
)

// ValidationResult partitions findings into blocking errors and advisory
// warnings. A template is valid exactly when it has no errors; warnings never
// block persistence.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateTemplate checks a template against the current exercise library.
func (s Service) ValidateTemplate(ctx context.Context, template GeneratedTemplate) (ValidationResult, error) {
	exercises, err := s.store.Exercises.List(ctx)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("list exercises: %w", err)
	}
	return validateTemplate(template, exercises), nil
}

func validateTemplate(template GeneratedTemplate, library []store.Exercise) ValidationResult {
	byID := make(map[int]store.Exercise, len(library))
	for _, exercise := range library {
		byID[exercise.ID] = exercise
	}

	var result ValidationResult
	addError := func(format string, args ...any) {
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}
	addWarning := func(format string, args ...any) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
	}

	if len(template.Exercises) == 0 {
		addError("template has no exercises")
	}
	if count := len(template.Exercises); count > 0 &&
		(count < minRecommendedExercises || count > maxRecommendedExercises) {
		addWarning("%d exercises is outside the recommended %d-%d range",
			count, minRecommendedExercises, maxRecommendedExercises)
	}

	seen := make(map[int]bool)
	var movements []MovementType
	for _, slot := range template.Exercises {
		stored, known := byID[slot.ExerciseID]
		if !known {
			addError("exercise %d (%s) does not exist", slot.ExerciseID, slot.ExerciseName)
		} else {
			validateSlotAgainstStored(slot, stored, template.Equipment, addWarning)
			movement := classifyMovement(stored)
			if !slices.Contains(movements, movement) {
				movements = append(movements, movement)
			}
		}

		if slot.Sets < 1 {
			addError("exercise %s has %d sets, need at least 1", slot.ExerciseName, slot.Sets)
		}
		if slot.Reps < 0 {
			addError("exercise %s has negative reps", slot.ExerciseName)
		}
		if slot.RestSeconds < minSaneRestSeconds || slot.RestSeconds > maxSaneRestSeconds {
			addWarning("exercise %s rest of %ds is outside the %d-%ds band",
				slot.ExerciseName, slot.RestSeconds, minSaneRestSeconds, maxSaneRestSeconds)
		}
		if seen[slot.ExerciseID] {
			addWarning("exercise %s appears more than once", slot.ExerciseName)
		}
		seen[slot.ExerciseID] = true
	}

	if slices.Contains(template.Tags, "full-body") {
		if len(movements) < minFullBodyMovements {
			addWarning("full-body template covers only %d movement patterns", len(movements))
		}
		if !slices.Contains(movements, MovementPush) && !slices.Contains(movements, MovementPull) {
			addWarning("full-body template is missing both a push and a pull movement")
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateSlotAgainstStored(slot TemplateExercise, stored store.Exercise, declaredEquipment []string, addWarning func(string, ...any)) {
	if slot.ExerciseName != stored.Name {
		addWarning("exercise %d is named %q in the library, template says %q",
			slot.ExerciseID, stored.Name, slot.ExerciseName)
	}
	if slot.Weight > 0 && stored.IsBodyweight() {
		addWarning("bodyweight exercise %s has a default weight of %.1f", stored.Name, slot.Weight)
	}
	if slot.Reps > 0 && stored.Type == store.ExerciseTypeTime {
		addWarning("time-based exercise %s has a rep target", stored.Name)
	}
	for _, required := range stored.Equipment {
		if store.IsBodyweightEquipment(required) {
			continue
		}
		if !containsFold(declaredEquipment, required) {
			addWarning("exercise %s needs %s, which the template does not list", stored.Name, required)
		}
	}
}

func containsFold(haystack []string, needle string) bool {
	for _, label := range haystack {
		if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

// SyncTemplate re-resolves the template against the live exercise library.
// Slots referencing deleted exercises are replaced by the best
// keyword-matching live exercise, or dropped when nothing matches. The
// aggregate equipment list is recomputed from the surviving slots.
func (s Service) SyncTemplate(ctx context.Context, template GeneratedTemplate) (GeneratedTemplate, error) {
	exercises, err := s.store.Exercises.List(ctx)
	if err != nil {
		return GeneratedTemplate{}, fmt.Errorf("list exercises: %w", err)
	}
	return syncTemplate(template, exercises), nil
}

func syncTemplate(template GeneratedTemplate, library []store.Exercise) GeneratedTemplate {
	byID := make(map[int]store.Exercise, len(library))
	for _, exercise := range library {
		byID[exercise.ID] = exercise
	}

	var (
		slots    []TemplateExercise
		resolved []ClassifiedExercise
	)
	for _, slot := range template.Exercises {
		stored, known := byID[slot.ExerciseID]
		if !known {
			replacement, ok := bestKeywordMatch(slot.ExerciseName, library)
			if !ok {
				continue
			}
			stored = replacement
			slot.ExerciseID = replacement.ID
			slot.ExerciseName = replacement.Name
		}
		slots = append(slots, slot)
		resolved = append(resolved, classify(stored))
	}

	template.Exercises = slots
	template.Equipment = aggregateEquipment(resolved)
	return template
}

// bestKeywordMatch scores live exercises by how many tokens of the lost
// exercise name their own name contains, returning the top scorer. A zero
// score means no usable replacement.
func bestKeywordMatch(lostName string, library []store.Exercise) (store.Exercise, bool) {
	tokens := strings.Fields(strings.ToLower(lostName))
	if len(tokens) == 0 {
		return store.Exercise{}, false
	}

	var (
		best      store.Exercise
		bestScore int
	)
	for _, candidate := range library {
		lower := strings.ToLower(candidate.Name)
		score := 0
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				score++
			}
		}
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore > 0
}
