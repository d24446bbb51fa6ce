package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/repforge/repforge/internal/errors"
)

// RoutineRepository provides CRUD over user-authored routines. Deleting a
// routine records its id so the deletion eventually propagates through sync.
type RoutineRepository struct {
	baseRepository
}

// Get retrieves a routine by id.
func (r *RoutineRepository) Get(ctx context.Context, id int) (Routine, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, uid, name, warmups, workouts, stretches
		FROM routines
		WHERE id = ?`, id)
	return scanRoutine(row)
}

// GetByUID retrieves a routine by its sync UID.
func (r *RoutineRepository) GetByUID(ctx context.Context, uid string) (Routine, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, uid, name, warmups, workouts, stretches
		FROM routines
		WHERE uid = ?`, uid)
	return scanRoutine(row)
}

// List returns all routines ordered by name.
func (r *RoutineRepository) List(ctx context.Context) (_ []Routine, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, uid, name, warmups, workouts, stretches
		FROM routines
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query routines: %w", err)
	}
	defer rows.Close()

	var routines []Routine
	for rows.Next() {
		routine, scanErr := scanRoutine(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		routines = append(routines, routine)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routine rows: %w", err)
	}
	return routines, nil
}

// Create inserts a routine and returns it with its assigned id.
func (r *RoutineRepository) Create(ctx context.Context, routine Routine) (Routine, error) {
	if routine.UID == "" {
		routine.UID = uuid.NewString()
	}
	warmups, workouts, stretches, err := marshalSections(routine)
	if err != nil {
		return Routine{}, err
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO routines (uid, name, warmups, workouts, stretches)
		VALUES (?, ?, ?, ?, ?)`,
		routine.UID, routine.Name, warmups, workouts, stretches)
	if err != nil {
		return Routine{}, fmt.Errorf("insert routine: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Routine{}, fmt.Errorf("routine insert id: %w", err)
	}
	routine.ID = int(id)
	r.bumpGeneration()
	return routine, nil
}

// Put overwrites an existing routine.
func (r *RoutineRepository) Put(ctx context.Context, routine Routine) error {
	warmups, workouts, stretches, err := marshalSections(routine)
	if err != nil {
		return err
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE routines
		SET name = ?, warmups = ?, workouts = ?, stretches = ?
		WHERE id = ?`,
		routine.Name, warmups, workouts, stretches, routine.ID)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("routine rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.bumpGeneration()
	return nil
}

// Upsert inserts the routine or overwrites the record sharing its UID.
func (r *RoutineRepository) Upsert(ctx context.Context, routine Routine) (Routine, error) {
	existing, err := r.GetByUID(ctx, routine.UID)
	if errors.Is(err, ErrNotFound) {
		return r.Create(ctx, routine)
	}
	if err != nil {
		return Routine{}, err
	}
	routine.ID = existing.ID
	if err = r.Put(ctx, routine); err != nil {
		return Routine{}, err
	}
	return routine, nil
}

// Delete removes a routine and records the deletion for sync.
func (r *RoutineRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("routine rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO deleted_routines (routine_id) VALUES (?)
		ON CONFLICT (routine_id) DO NOTHING`, id); err != nil {
		return fmt.Errorf("record deleted routine: %w", err)
	}
	r.bumpGeneration()
	return nil
}

// DeletedIDs lists routine ids deleted locally and not yet synced.
func (r *RoutineRepository) DeletedIDs(ctx context.Context) (_ []int, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `SELECT routine_id FROM deleted_routines ORDER BY routine_id`)
	if err != nil {
		return nil, fmt.Errorf("query deleted routines: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted routine id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted routine rows: %w", err)
	}
	return ids, nil
}

// ClearDeletedIDs drops the deletion bookkeeping after a successful push.
func (r *RoutineRepository) ClearDeletedIDs(ctx context.Context) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM deleted_routines`); err != nil {
		return fmt.Errorf("clear deleted routines: %w", err)
	}
	return nil
}

func marshalSections(routine Routine) (warmups, workouts, stretches string, err error) {
	if warmups, err = marshalJSON(routine.Warmups); err != nil {
		return "", "", "", err
	}
	if workouts, err = marshalJSON(routine.Workouts); err != nil {
		return "", "", "", err
	}
	if stretches, err = marshalJSON(routine.Stretches); err != nil {
		return "", "", "", err
	}
	return warmups, workouts, stretches, nil
}

func scanRoutine(row scanner) (Routine, error) {
	var (
		routine                      Routine
		warmups, workouts, stretches string
	)
	err := row.Scan(&routine.ID, &routine.UID, &routine.Name, &warmups, &workouts, &stretches)
	if errors.Is(err, sql.ErrNoRows) {
		return Routine{}, ErrNotFound
	}
	if err != nil {
		return Routine{}, fmt.Errorf("scan routine: %w", err)
	}

	if err = unmarshalJSON(warmups, &routine.Warmups); err != nil {
		return Routine{}, err
	}
	if err = unmarshalJSON(workouts, &routine.Workouts); err != nil {
		return Routine{}, err
	}
	if err = unmarshalJSON(stretches, &routine.Stretches); err != nil {
		return Routine{}, err
	}
	return routine, nil
}
