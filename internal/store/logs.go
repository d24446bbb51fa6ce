package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repforge/repforge/internal/errors"
)

// WorkoutLogRepository provides append-and-read access to workout logs. Logs
// are validated on the way in so the analytics layer never sees a broken
// session payload.
type WorkoutLogRepository struct {
	baseRepository
}

// Get retrieves a workout log by id.
func (r *WorkoutLogRepository) Get(ctx context.Context, id int) (WorkoutLog, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, uid, date, routine_id, data
		FROM workout_logs
		WHERE id = ?`, id)
	return scanWorkoutLog(row)
}

// GetByUID retrieves a workout log by its sync UID.
func (r *WorkoutLogRepository) GetByUID(ctx context.Context, uid string) (WorkoutLog, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, uid, date, routine_id, data
		FROM workout_logs
		WHERE uid = ?`, uid)
	return scanWorkoutLog(row)
}

// List returns all workout logs ordered from newest to oldest.
func (r *WorkoutLogRepository) List(ctx context.Context) ([]WorkoutLog, error) {
	return r.query(ctx, `
		SELECT id, uid, date, routine_id, data
		FROM workout_logs
		ORDER BY date DESC, id DESC`)
}

// ListRange returns logs with from <= date < to, newest first.
func (r *WorkoutLogRepository) ListRange(ctx context.Context, from, to time.Time) ([]WorkoutLog, error) {
	return r.query(ctx, `
		SELECT id, uid, date, routine_id, data
		FROM workout_logs
		WHERE date >= ? AND date < ?
		ORDER BY date DESC, id DESC`,
		from.UTC().Format(dateFormat), to.UTC().Format(dateFormat))
}

// ListByRoutine returns logs recorded against the given routine, newest first.
func (r *WorkoutLogRepository) ListByRoutine(ctx context.Context, routineID int) ([]WorkoutLog, error) {
	return r.query(ctx, `
		SELECT id, uid, date, routine_id, data
		FROM workout_logs
		WHERE routine_id = ?
		ORDER BY date DESC, id DESC`, routineID)
}

// Create validates and inserts a workout log, returning it with its id.
func (r *WorkoutLogRepository) Create(ctx context.Context, log WorkoutLog) (WorkoutLog, error) {
	if err := log.Data.Validate(); err != nil {
		return WorkoutLog{}, err
	}
	if log.UID == "" {
		log.UID = uuid.NewString()
	}
	if log.Date.IsZero() {
		log.Date = time.Now()
	}
	data, err := marshalJSON(log.Data)
	if err != nil {
		return WorkoutLog{}, err
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workout_logs (uid, date, routine_id, data)
		VALUES (?, ?, ?, ?)`,
		log.UID, log.Date.UTC().Format(dateFormat), nullableIDValue(log.RoutineID), data)
	if err != nil {
		return WorkoutLog{}, fmt.Errorf("insert workout log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return WorkoutLog{}, fmt.Errorf("workout log insert id: %w", err)
	}
	log.ID = int(id)
	r.bumpGeneration()
	return log, nil
}

// Upsert inserts the log or overwrites the record sharing its UID. Used by
// sync pull so replays cannot duplicate sessions.
func (r *WorkoutLogRepository) Upsert(ctx context.Context, log WorkoutLog) (WorkoutLog, error) {
	existing, err := r.GetByUID(ctx, log.UID)
	if errors.Is(err, ErrNotFound) {
		return r.Create(ctx, log)
	}
	if err != nil {
		return WorkoutLog{}, err
	}
	if err = log.Data.Validate(); err != nil {
		return WorkoutLog{}, err
	}
	data, err := marshalJSON(log.Data)
	if err != nil {
		return WorkoutLog{}, err
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		UPDATE workout_logs
		SET date = ?, routine_id = ?, data = ?
		WHERE uid = ?`,
		log.Date.UTC().Format(dateFormat), nullableIDValue(log.RoutineID), data, log.UID); err != nil {
		return WorkoutLog{}, fmt.Errorf("update workout log: %w", err)
	}
	log.ID = existing.ID
	r.bumpGeneration()
	return log, nil
}

// Delete removes a workout log.
func (r *WorkoutLogRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("workout log rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.bumpGeneration()
	return nil
}

func (r *WorkoutLogRepository) query(ctx context.Context, q string, args ...any) (_ []WorkoutLog, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query workout logs: %w", err)
	}
	defer rows.Close()

	var logs []WorkoutLog
	for rows.Next() {
		log, scanErr := scanWorkoutLog(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		logs = append(logs, log)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout log rows: %w", err)
	}
	return logs, nil
}

// nullableIDValue converts *int to a driver-friendly value.
func nullableIDValue(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}

func scanWorkoutLog(row scanner) (WorkoutLog, error) {
	var (
		log       WorkoutLog
		date      string
		routineID sql.NullInt64
		data      string
	)
	err := row.Scan(&log.ID, &log.UID, &date, &routineID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkoutLog{}, ErrNotFound
	}
	if err != nil {
		return WorkoutLog{}, fmt.Errorf("scan workout log: %w", err)
	}

	if log.Date, err = time.Parse(dateFormat, date); err != nil {
		return WorkoutLog{}, fmt.Errorf("parse workout log date: %w", err)
	}
	log.RoutineID = nullableID(routineID)
	if err = unmarshalJSON(data, &log.Data); err != nil {
		return WorkoutLog{}, err
	}
	return log, nil
}
