package postgres

import (
	"context"
	"database/sql"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

const exerciseSelect = `
SELECT e.id, e.workout_plan_id, e.name, e.sets, e.reps, e.rest_time, e.notes, e.created_at
FROM exercises e`

// exerciseRepository implements repository.ExerciseRepository on PostgreSQL.
type exerciseRepository struct {
	db *sql.DB
}

func NewExerciseRepository(db *sql.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var e domain.Exercise
	if err := row.Scan(&e.ID, &e.WorkoutPlanID, &e.Name, &e.Sets, &e.Reps, &e.RestTime, &e.Notes, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// queryExercises runs an exercise SELECT on any querier (pool or transaction).
func queryExercises(ctx context.Context, q querier, op, query string, args ...any) ([]domain.Exercise, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		exercises = append(exercises, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return exercises, nil
}

func (r *exerciseRepository) FindAll(ctx context.Context) ([]domain.Exercise, error) {
	return queryExercises(ctx, r.db, "postgres.Exercise.FindAll", exerciseSelect+" ORDER BY e.id")
}

func (r *exerciseRepository) FindByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	const op = "postgres.Exercise.FindByID"

	e, err := scanExercise(r.db.QueryRowContext(ctx, exerciseSelect+" WHERE e.id = $1", id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return e, nil
}

// FindByWorkoutPlan returns the plan's exercises in insertion order.
func (r *exerciseRepository) FindByWorkoutPlan(ctx context.Context, workoutPlanID int64) ([]domain.Exercise, error) {
	return queryExercises(ctx, r.db, "postgres.Exercise.FindByWorkoutPlan",
		exerciseSelect+" WHERE e.workout_plan_id = $1 ORDER BY e.id", workoutPlanID)
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (int64, error) {
	return insertExercise(ctx, r.db, "postgres.Exercise.Create", exercise)
}

func insertExercise(ctx context.Context, q querier, op string, e *domain.Exercise) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO exercises (workout_plan_id, name, sets, reps, rest_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.WorkoutPlanID, e.Name, e.Sets, e.Reps, e.RestTime, e.Notes,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

func (r *exerciseRepository) Update(ctx context.Context, id int64, patch domain.ExercisePatch) (bool, error) {
	const op = "postgres.Exercise.Update"

	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Sets != nil {
		b.set("sets", *patch.Sets)
	}
	if patch.Reps != nil {
		b.set("reps", *patch.Reps)
	}
	if patch.RestTime != nil {
		b.set("rest_time", *patch.RestTime)
	}
	if patch.Notes != nil {
		b.set("notes", *patch.Notes)
	}
	if b.empty() {
		return false, nil
	}

	// exercises carry no updated_at column
	query, args := b.build("exercises", id, false)
	res, err := r.db.ExecContext(ctx, query, args...)
	return execAffected(res, err, op)
}

func (r *exerciseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.Exercise.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	return execAffected(res, err, op)
}
