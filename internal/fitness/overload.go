package fitness

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/repforge/repforge/internal/store"
)

// Overload detection constants.
const (
	// overloadSessionWindow is how many recent sessions are inspected.
	overloadSessionWindow = 3
	// successMaxRepSpread is the allowed difference between the lightest
	// and heaviest rep count in a successful session.
	successMaxRepSpread = 2
	// successMinReps is the minimum reps per set for a session to count as
	// mastered rather than a failure or warm-up pattern.
	successMinReps = 6
	// DefaultMinConsecutiveSuccesses is the default success streak needed
	// before suggesting a weight increase.
	DefaultMinConsecutiveSuccesses = 2
	// highConfidenceStreak is the streak length that upgrades confidence.
	highConfidenceStreak = 3
)

// Weight increments in kilograms by lift class.
const (
	incrementSmall   = 1.0
	incrementUpper   = 2.5
	incrementLower   = 5.0
	incrementDefault = 2.5
)

// Increment keyword tables. Small isolation moves progress in the finest
// steps, lower-body compounds in the coarsest.
var (
	smallLiftKeywords = []string{
		"curl", "raise", "fly", "flye", "extension", "kickback",
		"face pull", "shrug",
	}
	upperCompoundKeywords = []string{
		"bench", "press", "row", "pull-up", "pullup", "chin", "dip",
	}
	lowerCompoundKeywords = []string{
		"squat", "deadlift", "leg press", "hip thrust", "lunge",
		"rdl", "good morning",
	}
)

// OverloadSuggestion recommends a weight increase for a mastered exercise.
type OverloadSuggestion struct {
	ExerciseID      int     `json:"exerciseId"`
	ExerciseName    string  `json:"exerciseName"`
	CurrentWeight   float64 `json:"currentWeight"`
	CurrentReps     int     `json:"currentReps"`
	SuggestedWeight float64 `json:"suggestedWeight"`
	Increment       float64 `json:"increment"`
	SuccessStreak   int     `json:"successStreak"`
	Confidence      string  `json:"confidence"`
}

// DetectProgressiveOverload inspects the exercise's recent sessions and
// suggests a weight increase once the current weight is consistently
// mastered. A nil suggestion means the user is not ready yet. The error
// wraps store.ErrNotFound when the exercise does not exist.
func (s Service) DetectProgressiveOverload(ctx context.Context, exerciseID int, minConsecutiveSuccesses int) (*OverloadSuggestion, error) {
	if _, err := s.store.Exercises.Get(ctx, exerciseID); err != nil {
		return nil, fmt.Errorf("get exercise %d: %w", exerciseID, err)
	}
	logs, err := s.store.Logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	return detectProgressiveOverload(exerciseID, logs, minConsecutiveSuccesses), nil
}

// exerciseSession is one appearance of an exercise in a logged workout.
type exerciseSession struct {
	date time.Time
	name string
	sets []store.SetLog
}

func detectProgressiveOverload(exerciseID int, logs []store.WorkoutLog, minConsecutiveSuccesses int) *OverloadSuggestion {
	if minConsecutiveSuccesses <= 0 {
		minConsecutiveSuccesses = DefaultMinConsecutiveSuccesses
	}

	sessions := collectSessions(exerciseID, logs)
	if len(sessions) > overloadSessionWindow {
		sessions = sessions[:overloadSessionWindow]
	}
	if len(sessions) == 0 {
		return nil
	}

	streak := 0
	for _, session := range sessions {
		if !isSuccessfulSession(session.sets) {
			break
		}
		streak++
	}
	if streak < minConsecutiveSuccesses {
		return nil
	}

	latest := sessions[0]
	currentWeight, currentReps := sessionWorkingSet(latest.sets)
	increment := weightIncrement(latest.name, currentWeight)

	confidence := "medium"
	if streak >= highConfidenceStreak {
		confidence = "high"
	}

	return &OverloadSuggestion{
		ExerciseID:      exerciseID,
		ExerciseName:    latest.name,
		CurrentWeight:   currentWeight,
		CurrentReps:     currentReps,
		SuggestedWeight: currentWeight + increment,
		Increment:       increment,
		SuccessStreak:   streak,
		Confidence:      confidence,
	}
}

// collectSessions extracts the exercise's appearances, most recent first.
func collectSessions(exerciseID int, logs []store.WorkoutLog) []exerciseSession {
	var sessions []exerciseSession
	for _, log := range logs {
		for _, exerciseLog := range log.Data.ExerciseLogs {
			if exerciseLog.ExerciseID != exerciseID || len(exerciseLog.Sets) == 0 {
				continue
			}
			sessions = append(sessions, exerciseSession{
				date: log.Date,
				name: exerciseLog.ExerciseName,
				sets: exerciseLog.Sets,
			})
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].date.After(sessions[j].date)
	})
	return sessions
}

// isSuccessfulSession reports whether every planned set was completed with
// consistent rep counts above the mastery floor.
func isSuccessfulSession(sets []store.SetLog) bool {
	minReps, maxReps := -1, -1
	for _, set := range sets {
		if !set.Completed {
			return false
		}
		if minReps == -1 || set.Reps < minReps {
			minReps = set.Reps
		}
		if set.Reps > maxReps {
			maxReps = set.Reps
		}
	}
	if minReps == -1 {
		return false
	}
	return maxReps-minReps <= successMaxRepSpread && minReps >= successMinReps
}

// sessionWorkingSet returns the heaviest completed set of a session.
func sessionWorkingSet(sets []store.SetLog) (weight float64, reps int) {
	for _, set := range sets {
		if !set.Completed {
			continue
		}
		if set.Weight > weight || (set.Weight == weight && set.Reps > reps) {
			weight = set.Weight
			reps = set.Reps
		}
	}
	return weight, reps
}

// weightIncrement resolves the progression step for an exercise name.
// Zero-weight work gets no weight suggestion; it progresses by reps instead.
func weightIncrement(name string, currentWeight float64) float64 {
	if currentWeight == 0 {
		return 0
	}
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, smallLiftKeywords):
		return incrementSmall
	case containsAny(lower, lowerCompoundKeywords):
		return incrementLower
	case containsAny(lower, upperCompoundKeywords):
		return incrementUpper
	default:
		return incrementDefault
	}
}

// NewPR describes a record set by a just-finished session.
type NewPR struct {
	ExerciseID     int     `json:"exerciseId"`
	ExerciseName   string  `json:"exerciseName"`
	Volume         float64 `json:"volume"`
	PreviousVolume float64 `json:"previousVolume"`
}

// CheckNewPRs compares the best completed-set volume per exercise in the
// given session against the historical best across prior logs, flagging
// strict improvements.
func (s Service) CheckNewPRs(ctx context.Context, session store.WorkoutLog) ([]NewPR, error) {
	logs, err := s.store.Logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	// Exclude the session under test if it is already persisted.
	prior := logs[:0:0]
	for _, log := range logs {
		if log.ID != session.ID || session.ID == 0 {
			prior = append(prior, log)
		}
	}
	return checkNewPRs(session, prior), nil
}

func checkNewPRs(session store.WorkoutLog, priorLogs []store.WorkoutLog) []NewPR {
	historical := make(map[int]float64)
	for _, record := range calculatePersonalRecords(priorLogs) {
		historical[record.ExerciseID] = record.Volume
	}

	var prs []NewPR
	for _, exerciseLog := range session.Data.ExerciseLogs {
		best := 0.0
		for _, set := range exerciseLog.Sets {
			if set.Completed && set.Weight > 0 && set.Volume() > best {
				best = set.Volume()
			}
		}
		if best == 0 {
			continue
		}
		if previous := historical[exerciseLog.ExerciseID]; best > previous {
			prs = append(prs, NewPR{
				ExerciseID:     exerciseLog.ExerciseID,
				ExerciseName:   exerciseLog.ExerciseName,
				Volume:         best,
				PreviousVolume: previous,
			})
		}
	}
	return prs
}
