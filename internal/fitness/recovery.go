package fitness

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/repforge/repforge/internal/store"
)

// Recovery score tuning.
const (
	recoveryBaseline = 50

	idealWorkoutBonus    = 20
	decentWorkoutBonus   = 10
	tooFewWorkoutPenalty = -20
	dailyWorkoutPenalty  = -30

	idealRestBonus   = 20
	decentRestBonus  = 10
	noRestPenalty    = -30
	activeRestBonus  = 10

	longRunPenalty  = -20
	shortRunPenalty = -10
	longRunDays     = 6
	shortRunDays    = 4

	// DefaultRecoveryWindowDays is the trailing window the score covers.
	DefaultRecoveryWindowDays = 7
)

// Recovery level thresholds, inclusive lower bounds.
const (
	excellentThreshold = 80
	goodThreshold      = 60
	fairThreshold      = 40
	poorThreshold      = 20
)

// WeeklyStats are the raw counts behind a recovery score.
type WeeklyStats struct {
	WorkoutDays     int `json:"workoutDays"`
	RestDays        int `json:"restDays"`
	ActiveRestDays  int `json:"activeRestDays"`
	ConsecutiveDays int `json:"consecutiveDays"`
}

// RecoveryScore is a 0-100 wellness estimate with a qualitative reading.
type RecoveryScore struct {
	Score          int         `json:"score"`
	Level          string      `json:"level"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation"`
	WeeklyStats    WeeklyStats `json:"weeklyStats"`
}

// CalculateRecoveryScore reads the trailing window of workout and rest-day
// logs and derives the wellness score.
func (s Service) CalculateRecoveryScore(ctx context.Context, days int) (RecoveryScore, error) {
	if days <= 0 {
		days = DefaultRecoveryWindowDays
	}
	return memoized(ctx, s, fmt.Sprintf("recovery-%d", days), func(ctx context.Context) (RecoveryScore, error) {
		return s.calculateRecoveryScore(ctx, days)
	})
}

func (s Service) calculateRecoveryScore(ctx context.Context, days int) (RecoveryScore, error) {
	now := s.now()
	from := now.AddDate(0, 0, -days)
	to := now.Add(time.Second)

	var (
		logs     []store.WorkoutLog
		restDays []store.RestDay
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		logs, err = s.store.Logs.ListRange(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		restDays, err = s.store.RestDays.ListRange(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return RecoveryScore{}, fmt.Errorf("load recovery window: %w", err)
	}
	return calculateRecoveryScore(logs, restDays, now), nil
}

func calculateRecoveryScore(logs []store.WorkoutLog, restDays []store.RestDay, now time.Time) RecoveryScore {
	stats := weeklyStats(logs, restDays, now)
	score := recoveryBaseline

	switch {
	case stats.WorkoutDays >= 7:
		score += dailyWorkoutPenalty
	case stats.WorkoutDays == 4 || stats.WorkoutDays == 5:
		score += idealWorkoutBonus
	case stats.WorkoutDays == 3 || stats.WorkoutDays == 6:
		score += decentWorkoutBonus
	default:
		score += tooFewWorkoutPenalty
	}

	switch {
	case stats.RestDays == 2 || stats.RestDays == 3:
		score += idealRestBonus
	case stats.RestDays == 1 || stats.RestDays == 4:
		score += decentRestBonus
	case stats.RestDays == 0:
		score += noRestPenalty
	}
	if stats.ActiveRestDays > 0 {
		score += activeRestBonus
	}

	switch {
	case stats.ConsecutiveDays >= longRunDays:
		score += longRunPenalty
	case stats.ConsecutiveDays >= shortRunDays:
		score += shortRunPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result := RecoveryScore{Score: score, WeeklyStats: stats}
	result.Level, result.Message = recoveryLevel(score)
	result.Recommendation = recoveryRecommendation(result.Level, stats)
	return result
}

func weeklyStats(logs []store.WorkoutLog, restDays []store.RestDay, now time.Time) WeeklyStats {
	workoutDaySet := make(map[time.Time]bool)
	for _, log := range logs {
		workoutDaySet[truncateToDay(log.Date.In(now.Location()))] = true
	}
	restDaySet := make(map[time.Time]bool)
	activeRest := 0
	for _, day := range restDays {
		restDaySet[truncateToDay(day.Date.In(now.Location()))] = true
		if day.Type == store.RestDayActive {
			activeRest++
		}
	}

	return WeeklyStats{
		WorkoutDays:     len(workoutDaySet),
		RestDays:        len(restDays),
		ActiveRestDays:  activeRest,
		ConsecutiveDays: consecutiveWorkoutDays(workoutDaySet, restDaySet),
	}
}

// consecutiveWorkoutDays counts the run of back-to-back workout days ending
// at the most recent event, stopping at the first rest day or gap. A day
// holding both a workout and a rest entry counts as a workout day.
func consecutiveWorkoutDays(workoutDays, restDays map[time.Time]bool) int {
	var latest time.Time
	found := false
	for day := range workoutDays {
		if !found || day.After(latest) {
			latest = day
			found = true
		}
	}
	for day := range restDays {
		if !found || day.After(latest) {
			latest = day
			found = true
		}
	}
	if !found {
		return 0
	}

	run := 0
	for cursor := latest; workoutDays[cursor]; cursor = cursor.AddDate(0, 0, -1) {
		run++
	}
	return run
}

func recoveryLevel(score int) (level, message string) {
	switch {
	case score >= excellentThreshold:
		return "excellent", "You are balancing training and recovery well."
	case score >= goodThreshold:
		return "good", "Solid week. Recovery is keeping pace with training."
	case score >= fairThreshold:
		return "fair", "Training and recovery are drifting out of balance."
	case score >= poorThreshold:
		return "poor", "Recovery is falling behind your training load."
	default:
		return "overtraining", "Your training load far exceeds your recovery."
	}
}

// recoveryRecommendation picks advice based on which factor is driving the
// score down: a long consecutive run, missing rest days, or low activity.
func recoveryRecommendation(level string, stats WeeklyStats) string {
	switch level {
	case "excellent":
		return "Keep doing what you are doing."
	case "good":
		if stats.ActiveRestDays == 0 {
			return "Consider swapping a passive rest day for light activity."
		}
		return "Stay the course; your current split is working."
	}

	if stats.ConsecutiveDays >= shortRunDays {
		return fmt.Sprintf("You have trained %d days in a row. Schedule a rest day before your next session.", stats.ConsecutiveDays)
	}
	if stats.RestDays == 0 {
		return "Log at least one rest day this week, ideally with light activity."
	}
	if stats.WorkoutDays < 3 {
		return "Aim for three to five workouts a week to build momentum."
	}
	return "Scale back intensity for a few days and prioritize sleep."
}
