package fitness

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/repforge/repforge/internal/store"
)

// Streak summarizes workout consistency over the full log history.
type Streak struct {
	CurrentStreak   int        `json:"currentStreak"`
	LongestStreak   int        `json:"longestStreak"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate,omitempty"`
	TotalWorkouts   int        `json:"totalWorkouts"`
	IsActiveToday   bool       `json:"isActiveToday"`
	StreakAtRisk    bool       `json:"streakAtRisk"`
}

// CalculateStreak reduces the whole workout history into streak metrics.
func (s Service) CalculateStreak(ctx context.Context) (Streak, error) {
	return memoized(ctx, s, "streak", func(ctx context.Context) (Streak, error) {
		logs, err := s.store.Logs.List(ctx)
		if err != nil {
			return Streak{}, fmt.Errorf("list workout logs: %w", err)
		}
		return calculateStreak(logs, s.now()), nil
	})
}

func calculateStreak(logs []store.WorkoutLog, now time.Time) Streak {
	if len(logs) == 0 {
		return Streak{}
	}

	// One entry per calendar day, day boundary at local midnight.
	daySet := make(map[time.Time]bool, len(logs))
	var lastWorkout time.Time
	for _, log := range logs {
		local := log.Date.In(now.Location())
		daySet[truncateToDay(local)] = true
		if log.Date.After(lastWorkout) {
			lastWorkout = log.Date
		}
	}
	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	today := truncateToDay(now)
	isActiveToday := daySet[today]

	// Current streak walks back one day at a time starting from today, or
	// yesterday when today has no workout yet.
	cursor := today
	if !isActiveToday {
		cursor = cursor.AddDate(0, 0, -1)
	}
	currentStreak := 0
	for daySet[cursor] {
		currentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	longestStreak := currentStreak
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longestStreak {
			longestStreak = run
		}
	}
	if len(days) > 0 && longestStreak == 0 {
		longestStreak = 1
	}

	last := lastWorkout
	return Streak{
		CurrentStreak:   currentStreak,
		LongestStreak:   longestStreak,
		LastWorkoutDate: &last,
		TotalWorkouts:   len(logs),
		IsActiveToday:   isActiveToday,
		StreakAtRisk:    currentStreak > 0 && !isActiveToday,
	}
}

// truncateToDay drops the time-of-day component in t's location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
