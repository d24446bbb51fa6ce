package fitness

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/repforge/repforge/internal/store"
)

// PersonalRecord is the best completed set logged for one exercise, measured
// by volume (weight times reps).
type PersonalRecord struct {
	ExerciseID   int       `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Volume       float64   `json:"volume"`
	DateAchieved time.Time `json:"dateAchieved"`
}

// PRStats aggregates the record list.
type PRStats struct {
	TotalPRs    int             `json:"totalPRs"`
	RecentPRs   int             `json:"recentPRs"`
	BestPR      *PersonalRecord `json:"bestPR,omitempty"`
	TotalVolume float64         `json:"totalVolume"`
}

// recentPRWindow is the trailing window counted as a recent record.
const recentPRWindow = 30 * 24 * time.Hour

// CalculatePersonalRecords reduces the workout history into one record per
// exercise.
func (s Service) CalculatePersonalRecords(ctx context.Context) ([]PersonalRecord, error) {
	return memoized(ctx, s, "personal-records", func(ctx context.Context) ([]PersonalRecord, error) {
		logs, err := s.store.Logs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list workout logs: %w", err)
		}
		return calculatePersonalRecords(logs), nil
	})
}

// calculatePersonalRecords keeps the highest-volume completed set per
// exercise. Ties keep the earliest inserted log, so the reduction sorts by
// id ascending rather than trusting the caller's ordering. The store lists
// logs newest first, which would otherwise invert the tie-break.
// Zero-weight sets are excluded, so bodyweight max-rep sets do not produce
// records; reps-only progress is tracked by the overload detector instead.
func calculatePersonalRecords(logs []store.WorkoutLog) []PersonalRecord {
	ordered := slices.Clone(logs)
	slices.SortStableFunc(ordered, func(a, b store.WorkoutLog) int {
		return cmp.Compare(a.ID, b.ID)
	})

	best := make(map[int]*PersonalRecord)
	var order []int

	for _, log := range ordered {
		for _, exerciseLog := range log.Data.ExerciseLogs {
			for _, set := range exerciseLog.Sets {
				if !set.Completed || set.Weight == 0 {
					continue
				}
				volume := set.Volume()
				record, exists := best[exerciseLog.ExerciseID]
				if !exists {
					best[exerciseLog.ExerciseID] = &PersonalRecord{
						ExerciseID:   exerciseLog.ExerciseID,
						ExerciseName: exerciseLog.ExerciseName,
						Weight:       set.Weight,
						Reps:         set.Reps,
						Volume:       volume,
						DateAchieved: log.Date,
					}
					order = append(order, exerciseLog.ExerciseID)
					continue
				}
				if volume > record.Volume {
					record.ExerciseName = exerciseLog.ExerciseName
					record.Weight = set.Weight
					record.Reps = set.Reps
					record.Volume = volume
					record.DateAchieved = log.Date
				}
			}
		}
	}

	records := make([]PersonalRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *best[id])
	}
	return records
}

// PersonalRecordFor looks up the record for a single exercise.
func (s Service) PersonalRecordFor(ctx context.Context, exerciseID int) (*PersonalRecord, error) {
	records, err := s.CalculatePersonalRecords(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ExerciseID == exerciseID {
			return &records[i], nil
		}
	}
	return nil, nil
}

// RecentPersonalRecords filters records achieved within the given number of
// days.
func (s Service) RecentPersonalRecords(ctx context.Context, days int) ([]PersonalRecord, error) {
	records, err := s.CalculatePersonalRecords(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().AddDate(0, 0, -days)
	var recent []PersonalRecord
	for _, record := range records {
		if record.DateAchieved.After(cutoff) {
			recent = append(recent, record)
		}
	}
	return recent, nil
}

// PersonalRecordStats aggregates record counts and total historical volume.
func (s Service) PersonalRecordStats(ctx context.Context) (PRStats, error) {
	return memoized(ctx, s, "pr-stats", func(ctx context.Context) (PRStats, error) {
		logs, err := s.store.Logs.List(ctx)
		if err != nil {
			return PRStats{}, fmt.Errorf("list workout logs: %w", err)
		}
		return personalRecordStats(logs, s.now()), nil
	})
}

func personalRecordStats(logs []store.WorkoutLog, now time.Time) PRStats {
	records := calculatePersonalRecords(logs)

	stats := PRStats{TotalPRs: len(records)}
	cutoff := now.Add(-recentPRWindow)
	for i := range records {
		if records[i].DateAchieved.After(cutoff) {
			stats.RecentPRs++
		}
		if stats.BestPR == nil || records[i].Volume > stats.BestPR.Volume {
			stats.BestPR = &records[i]
		}
	}

	// Total volume counts every completed set across every log, not just
	// record-setting ones.
	for _, log := range logs {
		for _, exerciseLog := range log.Data.ExerciseLogs {
			for _, set := range exerciseLog.Sets {
				if set.Completed {
					stats.TotalVolume += set.Volume()
				}
			}
		}
	}
	return stats
}
