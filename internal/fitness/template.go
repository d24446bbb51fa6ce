package fitness

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"

	"github.com/repforge/repforge/internal/store"
)

// TemplateExercise is one slot in a generated template.
type TemplateExercise struct {
	ExerciseID   int     `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
	RestSeconds  int     `json:"restSeconds"`
}

// GeneratedTemplate is a transient workout plan produced by a generator. It
// becomes a routine only when the user explicitly saves it.
type GeneratedTemplate struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Difficulty        Difficulty         `json:"difficulty"`
	Equipment         []string           `json:"equipment"`
	EstimatedDuration int                `json:"estimatedDurationMinutes"`
	Frequency         string             `json:"frequency"`
	Goal              string             `json:"goal"`
	Tags              []string           `json:"tags"`
	Exercises         []TemplateExercise `json:"exercises"`
}

// FilterCriteria narrows a classified exercise pool. Zero-value fields do not
// filter.
type FilterCriteria struct {
	Equipment    []string
	Difficulties []Difficulty
	Movements    []MovementType
	MuscleGroups []string
	CompoundOnly bool
	ExcludeIDs   []int
}

// BuildExercisePool classifies the whole exercise library once so the
// generators can query it repeatedly.
func (s Service) BuildExercisePool(ctx context.Context) ([]ClassifiedExercise, error) {
	exercises, err := s.store.Exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	pool := make([]ClassifiedExercise, 0, len(exercises))
	for _, exercise := range exercises {
		pool = append(pool, classify(exercise))
	}
	return pool, nil
}

// filterExercises applies every criterion as an intersection filter.
func filterExercises(pool []ClassifiedExercise, criteria FilterCriteria) []ClassifiedExercise {
	var filtered []ClassifiedExercise
	for _, exercise := range pool {
		if !matchesCriteria(exercise, criteria) {
			continue
		}
		filtered = append(filtered, exercise)
	}
	return filtered
}

func matchesCriteria(exercise ClassifiedExercise, criteria FilterCriteria) bool {
	if slices.Contains(criteria.ExcludeIDs, exercise.ID) {
		return false
	}
	if criteria.CompoundOnly && !exercise.Compound {
		return false
	}
	if len(criteria.Difficulties) > 0 && !slices.Contains(criteria.Difficulties, exercise.Difficulty) {
		return false
	}
	if len(criteria.Movements) > 0 && !slices.Contains(criteria.Movements, exercise.Movement) {
		return false
	}
	if len(criteria.MuscleGroups) > 0 && !matchesMuscleGroup(exercise, criteria.MuscleGroups) {
		return false
	}
	if len(criteria.Equipment) > 0 && !equipmentAvailable(exercise.Exercise, criteria.Equipment) {
		return false
	}
	return true
}

func matchesMuscleGroup(exercise ClassifiedExercise, groups []string) bool {
	for _, group := range groups {
		if strings.EqualFold(exercise.MuscleGroup, group) {
			return true
		}
	}
	return false
}

// selectBest picks the strongest candidate: compound exercises first, tied by
// highest MET. Falls back to the first element when no compound exists.
func selectBest(pool []ClassifiedExercise) *ClassifiedExercise {
	if len(pool) == 0 {
		return nil
	}
	compounds := make([]ClassifiedExercise, 0, len(pool))
	for _, exercise := range pool {
		if exercise.Compound {
			compounds = append(compounds, exercise)
		}
	}
	if len(compounds) == 0 {
		best := pool[0]
		return &best
	}
	sort.SliceStable(compounds, func(i, j int) bool {
		return compounds[i].MET > compounds[j].MET
	})
	best := compounds[0]
	return &best
}

// compoundSlotShare is the fraction of slots reserved for compound lifts when
// selection prioritizes them.
const compoundSlotShare = 0.6

// selectMultiple samples up to count exercises without replacement. When
// prioritizeCompound is set, ceil(count*0.6) slots are filled from randomly
// sampled compounds first; remaining slots come from whatever is left.
func selectMultiple(rng *rand.Rand, pool []ClassifiedExercise, count int, prioritizeCompound bool) []ClassifiedExercise {
	if count <= 0 || len(pool) == 0 {
		return nil
	}

	remaining := slices.Clone(pool)
	var selected []ClassifiedExercise

	if prioritizeCompound {
		compoundSlots := int(math.Ceil(float64(count) * compoundSlotShare))
		selected = drawRandom(rng, &remaining, compoundSlots, func(e ClassifiedExercise) bool {
			return e.Compound
		})
	}
	selected = append(selected, drawRandom(rng, &remaining, count-len(selected), nil)...)
	return selected
}

// drawRandom removes up to count random elements matching the predicate from
// the pool and returns them. A nil predicate matches everything.
func drawRandom(rng *rand.Rand, pool *[]ClassifiedExercise, count int, match func(ClassifiedExercise) bool) []ClassifiedExercise {
	var drawn []ClassifiedExercise
	for len(drawn) < count {
		candidates := make([]int, 0, len(*pool))
		for i, exercise := range *pool {
			if match == nil || match(exercise) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			break
		}
		pick := candidates[rng.IntN(len(candidates))]
		drawn = append(drawn, (*pool)[pick])
		*pool = slices.Delete(*pool, pick, pick+1)
	}
	return drawn
}

// aggregateEquipment collects the distinct equipment labels used by the
// template's exercises, bodyweight synonyms excluded.
func aggregateEquipment(exercises []ClassifiedExercise) []string {
	seen := make(map[string]bool)
	var equipment []string
	for _, exercise := range exercises {
		for _, label := range exercise.Equipment {
			lower := strings.ToLower(strings.TrimSpace(label))
			if lower == "" || store.IsBodyweightEquipment(lower) || seen[lower] {
				continue
			}
			seen[lower] = true
			equipment = append(equipment, lower)
		}
	}
	sort.Strings(equipment)
	return equipment
}
