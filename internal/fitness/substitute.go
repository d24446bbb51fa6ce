package fitness

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/store"
)

// Substitution scoring constants.
const (
	muscleOverlapWeight       = 0.4
	equipmentMismatchPenalty  = -50
	equipmentCompatibleBonus  = 30
	equipmentExactMatchBonus  = 10
	difficultyFilterBonus     = 20
	difficultyNeighborBonus   = 15
	typeMatchBonus            = 10
	minimumSubstituteScore    = 30
	defaultMaxSubstitutes     = 5
	difficultyNeighborRange   = 1
	reasonSeparator           = " • "
)

// Relative difficulty filter values.
const (
	DifficultyEasier = "easier"
	DifficultyHarder = "harder"
	DifficultySame   = "same"
)

// ErrUnknownScenario flags an unrecognized quick-substitution scenario.
var ErrUnknownScenario = errors.NewSentinel("unknown substitution scenario")

// SubstituteFilters narrow the substitution candidate pool.
type SubstituteFilters struct {
	// Equipment lists what the user has available. Empty means no
	// equipment constraint.
	Equipment []string `json:"equipment,omitempty"`
	// Difficulty requests easier, harder, or same relative difficulty.
	Difficulty string `json:"difficulty,omitempty"`
	// ExcludeIDs removes specific exercises from consideration.
	ExcludeIDs []int `json:"excludeIds,omitempty"`
}

// Substitute is a scored replacement candidate.
type Substitute struct {
	Exercise   store.Exercise `json:"exercise"`
	MatchScore int            `json:"matchScore"`
	Reason     string         `json:"reason"`
}

// FindSubstitutes scores every other exercise as a replacement for target and
// returns up to maxResults candidates ordered by descending score. Candidates
// scoring below the minimum threshold are dropped.
func (s Service) FindSubstitutes(ctx context.Context, targetID int, filters SubstituteFilters, maxResults int) ([]Substitute, error) {
	exercises, err := s.store.Exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	var target store.Exercise
	found := false
	for _, exercise := range exercises {
		if exercise.ID == targetID {
			target = exercise
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("exercise %d: %w", targetID, store.ErrNotFound)
	}
	return findSubstitutes(target, exercises, filters, maxResults), nil
}

func findSubstitutes(target store.Exercise, pool []store.Exercise, filters SubstituteFilters, maxResults int) []Substitute {
	if maxResults <= 0 {
		maxResults = defaultMaxSubstitutes
	}

	var results []Substitute
	for _, candidate := range pool {
		if candidate.ID == target.ID || slices.Contains(filters.ExcludeIDs, candidate.ID) {
			continue
		}
		score, reason := scoreSubstitute(target, candidate, filters)
		if score < minimumSubstituteScore {
			continue
		}
		results = append(results, Substitute{Exercise: candidate, MatchScore: score, Reason: reason})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// scoreSubstitute computes the additive match score and its explanation.
func scoreSubstitute(target, candidate store.Exercise, filters SubstituteFilters) (int, string) {
	var (
		score   float64
		reasons []string
	)

	if strings.EqualFold(target.MuscleGroup, candidate.MuscleGroup) {
		score += 100 * muscleOverlapWeight
		reasons = append(reasons, "Same muscle group")
	} else if overlap := muscleOverlap(target, candidate); overlap > 0 {
		score += overlap * muscleOverlapWeight
		reasons = append(reasons, "Similar muscles")
	}

	equipmentScore, equipmentReason := scoreEquipment(target, candidate, filters.Equipment)
	score += float64(equipmentScore)
	if equipmentReason != "" {
		reasons = append(reasons, equipmentReason)
	}

	diffScore, diffReason := scoreDifficulty(target, candidate, filters.Difficulty)
	score += float64(diffScore)
	if diffReason != "" {
		reasons = append(reasons, diffReason)
	}

	if target.Type == candidate.Type {
		score += typeMatchBonus
		reasons = append(reasons, "Same exercise type")
	}

	clamped := int(math.Round(math.Min(100, math.Max(0, score))))
	return clamped, strings.Join(reasons, reasonSeparator)
}

// muscleOverlap computes the Jaccard similarity (0-100) over the combined
// muscle labels of both exercises, with substring-inclusive matching.
func muscleOverlap(a, b store.Exercise) float64 {
	labelsA := muscleLabels(a)
	labelsB := muscleLabels(b)
	if len(labelsA) == 0 || len(labelsB) == 0 {
		return 0
	}

	intersection := 0
	for _, label := range labelsA {
		if intersectsAny([]string{label}, labelsB) {
			intersection++
		}
	}
	union := len(labelsA) + len(labelsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union) * 100
}

// muscleLabels collects the lowercase, deduplicated muscle labels of an
// exercise: its primary muscle group plus primary and secondary muscles.
func muscleLabels(exercise store.Exercise) []string {
	seen := make(map[string]bool)
	var labels []string
	add := func(label string) {
		lower := strings.ToLower(strings.TrimSpace(label))
		if lower == "" || seen[lower] {
			return
		}
		seen[lower] = true
		labels = append(labels, lower)
	}
	add(exercise.MuscleGroup)
	for _, muscle := range exercise.PrimaryMuscles {
		add(muscle)
	}
	for _, muscle := range exercise.SecondaryMuscles {
		add(muscle)
	}
	return labels
}

func scoreEquipment(target, candidate store.Exercise, available []string) (int, string) {
	if len(available) > 0 && !equipmentAvailable(candidate, available) {
		return equipmentMismatchPenalty, ""
	}
	if equipmentExactMatch(target, candidate) {
		return equipmentCompatibleBonus + equipmentExactMatchBonus, "Same equipment"
	}
	return equipmentCompatibleBonus, "Compatible equipment"
}

// equipmentAvailable reports whether the candidate can be performed with the
// available equipment. Bodyweight exercises are always available.
func equipmentAvailable(candidate store.Exercise, available []string) bool {
	if candidate.IsBodyweight() {
		return true
	}
	for _, required := range candidate.Equipment {
		if store.IsBodyweightEquipment(required) {
			return true
		}
		for _, have := range available {
			if strings.EqualFold(strings.TrimSpace(required), strings.TrimSpace(have)) {
				return true
			}
		}
	}
	return false
}

func equipmentExactMatch(target, candidate store.Exercise) bool {
	for _, a := range target.Equipment {
		for _, b := range candidate.Equipment {
			if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
				return true
			}
		}
	}
	return false
}

func scoreDifficulty(target, candidate store.Exercise, requested string) (int, string) {
	targetScore := difficultyScore(target.Name)
	candidateScore := difficultyScore(candidate.Name)

	switch requested {
	case DifficultyEasier:
		if candidateScore < targetScore {
			return difficultyFilterBonus, "Easier variation"
		}
		return 0, ""
	case DifficultyHarder:
		if candidateScore > targetScore {
			return difficultyFilterBonus, "Harder variation"
		}
		return 0, ""
	case DifficultySame:
		if candidateScore == targetScore {
			return difficultyFilterBonus, "Same difficulty"
		}
		return 0, ""
	}

	diff := candidateScore - targetScore
	if diff < 0 {
		diff = -diff
	}
	if diff <= difficultyNeighborRange {
		return difficultyNeighborBonus, "Similar difficulty"
	}
	return 0, ""
}

// QuickSubstitutes maps a named scenario to a preset filter and result count
// over the same scoring primitive.
func (s Service) QuickSubstitutes(ctx context.Context, targetID int, scenario string) ([]Substitute, error) {
	const (
		injuryResults     = 5
		equipmentResults  = 5
		difficultyResults = 3
	)
	switch scenario {
	case "injury":
		// Prefer gentler variations around the same muscles.
		return s.FindSubstitutes(ctx, targetID, SubstituteFilters{Difficulty: DifficultyEasier}, injuryResults)
	case "equipment":
		// Equipment-free alternatives only.
		return s.FindSubstitutes(ctx, targetID, SubstituteFilters{Equipment: []string{"bodyweight"}}, equipmentResults)
	case "easier":
		return s.FindSubstitutes(ctx, targetID, SubstituteFilters{Difficulty: DifficultyEasier}, difficultyResults)
	case "harder":
		return s.FindSubstitutes(ctx, targetID, SubstituteFilters{Difficulty: DifficultyHarder}, difficultyResults)
	default:
		return nil, errors.Wrap(ErrUnknownScenario, fmt.Sprintf("scenario %q", scenario))
	}
}
