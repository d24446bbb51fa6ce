package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/repforge/repforge/internal/errors"
)

// ExerciseRepository provides CRUD over the exercise library.
type ExerciseRepository struct {
	baseRepository
}

const exerciseColumns = `id, uid, name, muscle_group, equipment, type, met,
	instructions, primary_muscles, secondary_muscles, image`

// Get retrieves a single exercise by id.
func (r *ExerciseRepository) Get(ctx context.Context, id int) (Exercise, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE id = ?`, id)
	return scanExercise(row)
}

// GetByUID retrieves a single exercise by its sync UID.
func (r *ExerciseRepository) GetByUID(ctx context.Context, uid string) (Exercise, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE uid = ?`, uid)
	return scanExercise(row)
}

// List returns the whole exercise library ordered by id.
func (r *ExerciseRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		exercise, scanErr := scanExercise(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}
	return exercises, nil
}

// Create inserts an exercise and returns it with its assigned id. A missing
// UID is generated so the record has a stable identity for sync.
func (r *ExerciseRepository) Create(ctx context.Context, ex Exercise) (Exercise, error) {
	if ex.UID == "" {
		ex.UID = uuid.NewString()
	}
	if ex.Type == "" {
		ex.Type = ExerciseTypeRep
	}
	if ex.MET == 0 {
		ex.MET = DefaultMET
	}

	equipment, instructions, primary, secondary, err := marshalExerciseLists(ex)
	if err != nil {
		return Exercise{}, err
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercises (uid, name, muscle_group, equipment, type, met,
			instructions, primary_muscles, secondary_muscles, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.UID, ex.Name, ex.MuscleGroup, equipment, ex.Type, ex.MET,
		instructions, primary, secondary, ex.Image)
	if err != nil {
		return Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Exercise{}, fmt.Errorf("exercise insert id: %w", err)
	}
	ex.ID = int(id)
	r.bumpGeneration()
	return ex, nil
}

// Upsert inserts the exercise or, when a record with the same UID exists,
// overwrites it in place. Used by sync pull so repeated pulls cannot
// duplicate library entries.
func (r *ExerciseRepository) Upsert(ctx context.Context, ex Exercise) (Exercise, error) {
	existing, err := r.GetByUID(ctx, ex.UID)
	if errors.Is(err, ErrNotFound) {
		return r.Create(ctx, ex)
	}
	if err != nil {
		return Exercise{}, err
	}

	equipment, instructions, primary, secondary, err := marshalExerciseLists(ex)
	if err != nil {
		return Exercise{}, err
	}
	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		UPDATE exercises
		SET name = ?, muscle_group = ?, equipment = ?, type = ?, met = ?,
			instructions = ?, primary_muscles = ?, secondary_muscles = ?, image = ?
		WHERE uid = ?`,
		ex.Name, ex.MuscleGroup, equipment, ex.Type, ex.MET,
		instructions, primary, secondary, ex.Image, ex.UID); err != nil {
		return Exercise{}, fmt.Errorf("update exercise: %w", err)
	}
	ex.ID = existing.ID
	r.bumpGeneration()
	return ex, nil
}

// ListMuscleGroups returns the distinct primary muscle group labels.
func (r *ExerciseRepository) ListMuscleGroups(ctx context.Context) (_ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT DISTINCT muscle_group
		FROM exercises
		WHERE muscle_group <> ''
		ORDER BY muscle_group`)
	if err != nil {
		return nil, fmt.Errorf("query muscle groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var group string
		if err = rows.Scan(&group); err != nil {
			return nil, fmt.Errorf("scan muscle group: %w", err)
		}
		groups = append(groups, group)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate muscle group rows: %w", err)
	}
	return groups, nil
}

func marshalExerciseLists(ex Exercise) (equipment, instructions, primary, secondary string, err error) {
	if equipment, err = marshalJSON(ex.Equipment); err != nil {
		return "", "", "", "", err
	}
	if instructions, err = marshalJSON(ex.Instructions); err != nil {
		return "", "", "", "", err
	}
	if primary, err = marshalJSON(ex.PrimaryMuscles); err != nil {
		return "", "", "", "", err
	}
	if secondary, err = marshalJSON(ex.SecondaryMuscles); err != nil {
		return "", "", "", "", err
	}
	return equipment, instructions, primary, secondary, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(row scanner) (Exercise, error) {
	var (
		ex                                         Exercise
		equipment, instructions, primary, secondary string
	)
	err := row.Scan(&ex.ID, &ex.UID, &ex.Name, &ex.MuscleGroup, &equipment,
		&ex.Type, &ex.MET, &instructions, &primary, &secondary, &ex.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, ErrNotFound
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("scan exercise: %w", err)
	}

	if err = unmarshalJSON(equipment, &ex.Equipment); err != nil {
		return Exercise{}, err
	}
	if err = unmarshalJSON(instructions, &ex.Instructions); err != nil {
		return Exercise{}, err
	}
	if err = unmarshalJSON(primary, &ex.PrimaryMuscles); err != nil {
		return Exercise{}, err
	}
	if err = unmarshalJSON(secondary, &ex.SecondaryMuscles); err != nil {
		return Exercise{}, err
	}
	return ex, nil
}
