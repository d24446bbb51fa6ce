package fitness

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/repforge/repforge/internal/ptr"
	"github.com/repforge/repforge/internal/store"
)

// Recommendation categories and priorities.
const (
	RecommendRest    = "rest"
	RecommendRoutine = "routine"
	RecommendLight   = "light"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation tuning.
const (
	maxRecommendations = 5

	overtrainingRunDays   = 5
	heavyRunDays          = 4
	heavyWeeklyWorkouts   = 6
	rotationWindowDays    = 7
	rotationBucketCount   = 3
	routinesPerBucket     = 2
	comebackMinDays       = 3
	comebackMaxDays       = 30
	momentumGapDays       = 2
	favoriteFallbackFloor = 3
)

// Recommendation is one "what to do next" suggestion.
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	RoutineID   *int   `json:"routineId,omitempty"`
	RoutineName string `json:"routineName,omitempty"`
}

// WorkoutRecommendations combines streak, load, and muscle-rotation signals
// into a ranked list of at most five suggestions.
func (s Service) WorkoutRecommendations(ctx context.Context) ([]Recommendation, error) {
	return memoized(ctx, s, "recommendations", s.workoutRecommendations)
}

func (s Service) workoutRecommendations(ctx context.Context) ([]Recommendation, error) {
	var (
		logs     []store.WorkoutLog
		routines []store.Routine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		logs, err = s.store.Logs.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		routines, err = s.store.Routines.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load recommendation inputs: %w", err)
	}
	return workoutRecommendations(logs, routines, s.now()), nil
}

func workoutRecommendations(logs []store.WorkoutLog, routines []store.Routine, now time.Time) []Recommendation {
	if len(logs) == 0 {
		return []Recommendation{{
			Type:     RecommendRoutine,
			Priority: PriorityHigh,
			Title:    "Start your first workout",
			Message:  "Pick any routine and log your first session to get personalized suggestions.",
		}}
	}

	consecutive := trailingWorkoutRun(logs, now)
	weeklyWorkouts := workoutsInWindow(logs, now, rotationWindowDays)

	// A long unbroken run short-circuits everything else.
	if consecutive >= overtrainingRunDays {
		return []Recommendation{{
			Type:     RecommendRest,
			Priority: PriorityHigh,
			Title:    "Take a rest day",
			Message:  fmt.Sprintf("You have trained %d days in a row. Your body needs recovery to keep progressing.", consecutive),
		}}
	}

	var recommendations []Recommendation
	if consecutive >= heavyRunDays && weeklyWorkouts >= heavyWeeklyWorkouts {
		recommendations = append(recommendations, Recommendation{
			Type:     RecommendRest,
			Priority: PriorityMedium,
			Title:    "Consider resting",
			Message:  "A heavy week plus several consecutive days. A rest day now beats a forced one later.",
		})
	}
	if weeklyWorkouts >= heavyWeeklyWorkouts && consecutive < overtrainingRunDays {
		recommendations = append(recommendations, Recommendation{
			Type:     RecommendLight,
			Priority: PriorityMedium,
			Title:    "Go light today",
			Message:  "High training volume this week. A light recovery session keeps the habit without adding load.",
		})
	}

	recommendations = append(recommendations, rotationRecommendations(logs, routines, now)...)

	// Comeback and momentum nudges surface before everything else.
	streak := calculateStreak(logs, now)
	daysSince := daysSinceLastWorkout(logs, now)
	switch {
	case daysSince >= comebackMinDays && daysSince < comebackMaxDays:
		recommendations = prepend(recommendations, Recommendation{
			Type:     RecommendRoutine,
			Priority: PriorityHigh,
			Title:    "Welcome back",
			Message:  fmt.Sprintf("It has been %d days. Ease back in with a full-body session.", daysSince),
		})
	case daysSince == momentumGapDays && streak.CurrentStreak == 0:
		recommendations = prepend(recommendations, Recommendation{
			Type:     RecommendRoutine,
			Priority: PriorityHigh,
			Title:    "Keep the momentum",
			Message:  "Two days off. Train today to keep your rhythm going.",
		})
	}

	if len(recommendations) < favoriteFallbackFloor {
		if favorite := favoriteRoutine(logs, routines); favorite != nil {
			recommendations = append(recommendations, Recommendation{
				Type:        RecommendRoutine,
				Priority:    PriorityLow,
				Title:       "Back to a favorite",
				Message:     fmt.Sprintf("%s is your most-logged routine.", favorite.Name),
				RoutineID:   ptr.Ref(favorite.ID),
				RoutineName: favorite.Name,
			})
		}
	}

	return dedupeAndTruncate(recommendations)
}

// trailingWorkoutRun counts consecutive workout days ending at the most
// recent workout.
func trailingWorkoutRun(logs []store.WorkoutLog, now time.Time) int {
	workoutDays := make(map[time.Time]bool)
	var latest time.Time
	for _, log := range logs {
		day := truncateToDay(log.Date.In(now.Location()))
		workoutDays[day] = true
		if day.After(latest) {
			latest = day
		}
	}
	run := 0
	for cursor := latest; workoutDays[cursor]; cursor = cursor.AddDate(0, 0, -1) {
		run++
	}
	return run
}

func workoutsInWindow(logs []store.WorkoutLog, now time.Time, days int) int {
	cutoff := now.AddDate(0, 0, -days)
	count := 0
	for _, log := range logs {
		if log.Date.After(cutoff) {
			count++
		}
	}
	return count
}

func daysSinceLastWorkout(logs []store.WorkoutLog, now time.Time) int {
	var latest time.Time
	for _, log := range logs {
		if log.Date.After(latest) {
			latest = log.Date
		}
	}
	if latest.IsZero() {
		return 0
	}
	days := int(truncateToDay(now).Sub(truncateToDay(latest.In(now.Location()))).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// bucketNeglect pairs a muscle bucket with how long it has gone untrained.
type bucketNeglect struct {
	bucket    MuscleBucket
	daysSince int
}

// rotationRecommendations finds the three most neglected muscle buckets in
// the trailing week and suggests routines whose names target them.
func rotationRecommendations(logs []store.WorkoutLog, routines []store.Routine, now time.Time) []Recommendation {
	lastTrained := make(map[MuscleBucket]time.Time)
	cutoff := now.AddDate(0, 0, -rotationWindowDays)
	for _, log := range logs {
		if !log.Date.After(cutoff) {
			continue
		}
		for _, exerciseLog := range log.Data.ExerciseLogs {
			bucket := bucketForExercise(exerciseLog.ExerciseName)
			if bucket == BucketOther {
				continue
			}
			if log.Date.After(lastTrained[bucket]) {
				lastTrained[bucket] = log.Date
			}
		}
	}

	trackedBuckets := []MuscleBucket{
		BucketChest, BucketBack, BucketLegs, BucketShoulders, BucketArms, BucketCore,
	}
	neglect := make([]bucketNeglect, 0, len(trackedBuckets))
	for _, bucket := range trackedBuckets {
		daysSince := rotationWindowDays + 1
		if trained, ok := lastTrained[bucket]; ok {
			daysSince = int(truncateToDay(now).Sub(truncateToDay(trained.In(now.Location()))).Hours() / 24)
		}
		neglect = append(neglect, bucketNeglect{bucket: bucket, daysSince: daysSince})
	}
	sort.SliceStable(neglect, func(i, j int) bool {
		return neglect[i].daysSince > neglect[j].daysSince
	})
	if len(neglect) > rotationBucketCount {
		neglect = neglect[:rotationBucketCount]
	}

	priorities := []string{PriorityHigh, PriorityMedium, PriorityLow}
	var recommendations []Recommendation
	for rank, entry := range neglect {
		matched := 0
		for i := range routines {
			if matched >= routinesPerBucket {
				break
			}
			if !routineTargetsBucket(routines[i].Name, entry.bucket) {
				continue
			}
			recommendations = append(recommendations, Recommendation{
				Type:        RecommendRoutine,
				Priority:    priorities[rank],
				Title:       fmt.Sprintf("Train %s", strings.ToLower(string(entry.bucket))),
				Message:     neglectMessage(entry),
				RoutineID:   ptr.Ref(routines[i].ID),
				RoutineName: routines[i].Name,
			})
			matched++
		}
	}
	return recommendations
}

func neglectMessage(entry bucketNeglect) string {
	if entry.daysSince > rotationWindowDays {
		return fmt.Sprintf("No %s work logged this week.", strings.ToLower(string(entry.bucket)))
	}
	return fmt.Sprintf("Last trained %s %d days ago.", strings.ToLower(string(entry.bucket)), entry.daysSince)
}

func routineTargetsBucket(routineName string, bucket MuscleBucket) bool {
	keywords, ok := routineNameKeywords[bucket]
	if !ok {
		return false
	}
	return containsAny(strings.ToLower(routineName), keywords)
}

// favoriteRoutine returns the routine most frequently referenced by logs.
func favoriteRoutine(logs []store.WorkoutLog, routines []store.Routine) *store.Routine {
	counts := make(map[int]int)
	for _, log := range logs {
		if log.RoutineID != nil {
			counts[*log.RoutineID]++
		}
	}
	var (
		favorite *store.Routine
		best     int
	)
	for i := range routines {
		if count := counts[routines[i].ID]; count > best {
			favorite = &routines[i]
			best = count
		}
	}
	return favorite
}

func prepend(list []Recommendation, first Recommendation) []Recommendation {
	return append([]Recommendation{first}, list...)
}

// dedupeAndTruncate removes duplicate routine suggestions, keyed by routine
// id when present and name otherwise, preserving insertion order.
func dedupeAndTruncate(recommendations []Recommendation) []Recommendation {
	seen := make(map[string]bool)
	var out []Recommendation
	for _, rec := range recommendations {
		key := rec.Title
		if rec.RoutineID != nil {
			key = fmt.Sprintf("routine-%d", *rec.RoutineID)
		} else if rec.RoutineName != "" {
			key = "routine-" + rec.RoutineName
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
