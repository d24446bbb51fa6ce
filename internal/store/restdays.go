package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repforge/repforge/internal/errors"
)

// RestDayRepository stores logged recovery days.
type RestDayRepository struct {
	baseRepository
}

// Get retrieves a rest day by id.
func (r *RestDayRepository) Get(ctx context.Context, id int) (RestDay, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, uid, date, type, notes, activities
		FROM rest_days
		WHERE id = ?`, id)
	return scanRestDay(row)
}

// GetByUID retrieves a rest day by its sync UID.
func (r *RestDayRepository) GetByUID(ctx context.Context, uid string) (RestDay, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, uid, date, type, notes, activities
		FROM rest_days
		WHERE uid = ?`, uid)
	return scanRestDay(row)
}

// List returns all rest days, newest first.
func (r *RestDayRepository) List(ctx context.Context) ([]RestDay, error) {
	return r.query(ctx, `
		SELECT id, uid, date, type, notes, activities
		FROM rest_days
		ORDER BY date DESC, id DESC`)
}

// ListRange returns rest days with from <= date < to, newest first.
func (r *RestDayRepository) ListRange(ctx context.Context, from, to time.Time) ([]RestDay, error) {
	return r.query(ctx, `
		SELECT id, uid, date, type, notes, activities
		FROM rest_days
		WHERE date >= ? AND date < ?
		ORDER BY date DESC, id DESC`,
		from.UTC().Format(dateFormat), to.UTC().Format(dateFormat))
}

// Create inserts a rest day and returns it with its assigned id.
func (r *RestDayRepository) Create(ctx context.Context, day RestDay) (RestDay, error) {
	if day.UID == "" {
		day.UID = uuid.NewString()
	}
	if day.Type == "" {
		day.Type = RestDayPassive
	}
	if day.Date.IsZero() {
		day.Date = time.Now()
	}
	activities, err := marshalJSON(day.Activities)
	if err != nil {
		return RestDay{}, err
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO rest_days (uid, date, type, notes, activities)
		VALUES (?, ?, ?, ?, ?)`,
		day.UID, day.Date.UTC().Format(dateFormat), day.Type, day.Notes, activities)
	if err != nil {
		return RestDay{}, fmt.Errorf("insert rest day: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return RestDay{}, fmt.Errorf("rest day insert id: %w", err)
	}
	day.ID = int(id)
	r.bumpGeneration()
	return day, nil
}

// Upsert inserts the rest day or overwrites the record sharing its UID.
func (r *RestDayRepository) Upsert(ctx context.Context, day RestDay) (RestDay, error) {
	existing, err := r.GetByUID(ctx, day.UID)
	if errors.Is(err, ErrNotFound) {
		return r.Create(ctx, day)
	}
	if err != nil {
		return RestDay{}, err
	}
	activities, err := marshalJSON(day.Activities)
	if err != nil {
		return RestDay{}, err
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		UPDATE rest_days
		SET date = ?, type = ?, notes = ?, activities = ?
		WHERE uid = ?`,
		day.Date.UTC().Format(dateFormat), day.Type, day.Notes, activities, day.UID); err != nil {
		return RestDay{}, fmt.Errorf("update rest day: %w", err)
	}
	day.ID = existing.ID
	r.bumpGeneration()
	return day, nil
}

// Delete removes a rest day.
func (r *RestDayRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM rest_days WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete rest day: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rest day rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.bumpGeneration()
	return nil
}

func (r *RestDayRepository) query(ctx context.Context, q string, args ...any) (_ []RestDay, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query rest days: %w", err)
	}
	defer rows.Close()

	var days []RestDay
	for rows.Next() {
		day, scanErr := scanRestDay(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		days = append(days, day)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rest day rows: %w", err)
	}
	return days, nil
}

func scanRestDay(row scanner) (RestDay, error) {
	var (
		day        RestDay
		date       string
		activities string
	)
	err := row.Scan(&day.ID, &day.UID, &date, &day.Type, &day.Notes, &activities)
	if errors.Is(err, sql.ErrNoRows) {
		return RestDay{}, ErrNotFound
	}
	if err != nil {
		return RestDay{}, fmt.Errorf("scan rest day: %w", err)
	}

	if day.Date, err = time.Parse(dateFormat, date); err != nil {
		return RestDay{}, fmt.Errorf("parse rest day date: %w", err)
	}
	if err = unmarshalJSON(activities, &day.Activities); err != nil {
		return RestDay{}, err
	}
	return day, nil
}
