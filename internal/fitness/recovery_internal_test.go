package fitness

import (
	"testing"
	"time"

	"github.com/repforge/repforge/internal/store"
)

func restOn(date time.Time, restType string) store.RestDay {
	return store.RestDay{Date: date, Type: restType}
}

func TestCalculateRecoveryScore(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return now.AddDate(0, 0, offset)
	}

	testCases := []struct {
		name      string
		logs      []store.WorkoutLog
		restDays  []store.RestDay
		wantScore int
		wantLevel string
	}{
		{
			name:      "empty week bottoms out",
			logs:      nil,
			restDays:  nil,
			wantScore: 0, // 50 - 20 (too few workouts) - 30 (no rest days)
			wantLevel: "overtraining",
		},
		{
			name: "balanced week scores excellent",
			logs: []store.WorkoutLog{
				logOn(day(-6)), logOn(day(-5)), logOn(day(-3)), logOn(day(-1)),
			},
			restDays: []store.RestDay{
				restOn(day(-4), store.RestDayActive),
				restOn(day(-2), store.RestDayPassive),
			},
			wantScore: 100, // 50 + 20 + 20 + 10, no consecutive penalty
			wantLevel: "excellent",
		},
		{
			name: "training every day is punished",
			logs: []store.WorkoutLog{
				logOn(day(-6)), logOn(day(-5)), logOn(day(-4)), logOn(day(-3)),
				logOn(day(-2)), logOn(day(-1)), logOn(day(0)),
			},
			restDays:  nil,
			wantScore: 0, // 50 - 30 (7 workout days) - 30 (no rest) - 20 (7-day run), clamped
			wantLevel: "overtraining",
		},
		{
			name: "moderate week with one rest day",
			logs: []store.WorkoutLog{
				logOn(day(-5)), logOn(day(-3)), logOn(day(-1)),
			},
			restDays: []store.RestDay{
				restOn(day(-2), store.RestDayPassive),
			},
			wantScore: 70, // 50 + 10 (3 workouts) + 10 (1 rest day)
			wantLevel: "good",
		},
		{
			name: "short consecutive run takes a penalty",
			logs: []store.WorkoutLog{
				logOn(day(-4)), logOn(day(-3)), logOn(day(-2)), logOn(day(-1)),
			},
			restDays: []store.RestDay{
				restOn(day(-6), store.RestDayActive),
			},
			wantScore: 80, // 50 + 20 (4 workouts) + 10 (1 rest) + 10 (active) - 10 (4-day run)
			wantLevel: "excellent",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateRecoveryScore(tc.logs, tc.restDays, now)
			if got.Score != tc.wantScore {
				t.Errorf("score = %d (stats %+v), want %d", got.Score, got.WeeklyStats, tc.wantScore)
			}
			if got.Level != tc.wantLevel {
				t.Errorf("level = %q, want %q", got.Level, tc.wantLevel)
			}
			if got.Message == "" || got.Recommendation == "" {
				t.Error("want a non-empty message and recommendation")
			}
		})
	}
}

func TestCalculateRecoveryScore_alwaysBounded(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)

	var heavyLogs []store.WorkoutLog
	var manyRest []store.RestDay
	for offset := 0; offset < 14; offset++ {
		heavyLogs = append(heavyLogs, logOn(now.AddDate(0, 0, -offset)))
		manyRest = append(manyRest, restOn(now.AddDate(0, 0, -offset), store.RestDayActive))
	}

	inputs := []struct {
		logs     []store.WorkoutLog
		restDays []store.RestDay
	}{
		{nil, nil},
		{heavyLogs, nil},
		{nil, manyRest},
		{heavyLogs, manyRest},
	}
	for i, input := range inputs {
		got := calculateRecoveryScore(input.logs, input.restDays, now)
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("input %d: score %d outside [0,100]", i, got.Score)
		}
	}
}

func TestConsecutiveWorkoutDays(t *testing.T) {
	now := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return truncateToDay(now.AddDate(0, 0, offset))
	}

	testCases := []struct {
		name     string
		workouts []time.Time
		rests    []time.Time
		want     int
	}{
		{
			name: "no events",
			want: 0,
		},
		{
			name:     "unbroken run",
			workouts: []time.Time{day(-2), day(-1), day(0)},
			want:     3,
		},
		{
			name:     "gap stops the count",
			workouts: []time.Time{day(-4), day(-1), day(0)},
			want:     2,
		},
		{
			name:     "rest day as most recent event means no run",
			workouts: []time.Time{day(-2), day(-1)},
			rests:    []time.Time{day(0)},
			want:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			workoutDays := make(map[time.Time]bool)
			for _, d := range tc.workouts {
				workoutDays[d] = true
			}
			restDays := make(map[time.Time]bool)
			for _, d := range tc.rests {
				restDays[d] = true
			}
			if got := consecutiveWorkoutDays(workoutDays, restDays); got != tc.want {
				t.Errorf("consecutiveWorkoutDays() = %d, want %d", got, tc.want)
			}
		})
	}
}
