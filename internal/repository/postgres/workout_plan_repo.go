package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

const workoutPlanSelect = `
SELECT wp.id, wp.trainer_id, wp.name, wp.description, wp.duration_weeks, wp.created_at, wp.updated_at,
       t.name, t.email,
       (SELECT COUNT(*) FROM exercises e WHERE e.workout_plan_id = wp.id) AS exercise_count
FROM workout_plans wp
JOIN users t ON t.id = wp.trainer_id`

// workoutPlanRepository implements repository.WorkoutPlanRepository on PostgreSQL.
type workoutPlanRepository struct {
	db *sql.DB
}

func NewWorkoutPlanRepository(db *sql.DB) repository.WorkoutPlanRepository {
	return &workoutPlanRepository{db: db}
}

func scanWorkoutPlan(row rowScanner) (*domain.WorkoutPlan, error) {
	var p domain.WorkoutPlan
	err := row.Scan(&p.ID, &p.TrainerID, &p.Name, &p.Description, &p.DurationWeeks, &p.CreatedAt, &p.UpdatedAt,
		&p.TrainerName, &p.TrainerEmail, &p.ExerciseCount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *workoutPlanRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.WorkoutPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	plans := []domain.WorkoutPlan{}
	for rows.Next() {
		p, err := scanWorkoutPlan(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return plans, nil
}

func (r *workoutPlanRepository) FindAll(ctx context.Context) ([]domain.WorkoutPlan, error) {
	return r.list(ctx, "postgres.WorkoutPlan.FindAll", workoutPlanSelect+" ORDER BY wp.created_at DESC, wp.id DESC")
}

// FindByID returns the plan together with its exercises.
func (r *workoutPlanRepository) FindByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	const op = "postgres.WorkoutPlan.FindByID"

	p, err := scanWorkoutPlan(r.db.QueryRowContext(ctx, workoutPlanSelect+" WHERE wp.id = $1", id))
	if err != nil {
		return nil, wrapErr(op, err)
	}

	p.Exercises, err = queryExercises(ctx, r.db, op, exerciseSelect+" WHERE e.workout_plan_id = $1 ORDER BY e.id", id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *workoutPlanRepository) FindByTrainer(ctx context.Context, trainerID int64) ([]domain.WorkoutPlan, error) {
	return r.list(ctx, "postgres.WorkoutPlan.FindByTrainer",
		workoutPlanSelect+" WHERE wp.trainer_id = $1 ORDER BY wp.created_at DESC, wp.id DESC", trainerID)
}

// CreateWithExercises inserts the plan and its exercises in one transaction.
// Nothing is stored if any insert fails.
func (r *workoutPlanRepository) CreateWithExercises(ctx context.Context, plan *domain.WorkoutPlan, exercises []domain.Exercise) (id int64, err error) {
	const op = "postgres.WorkoutPlan.CreateWithExercises"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO workout_plans (trainer_id, name, description, duration_weeks)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		plan.TrainerID, plan.Name, plan.Description, plan.DurationWeeks,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}

	for i := range exercises {
		exercises[i].WorkoutPlanID = id
		exerciseID, insertErr := insertExercise(ctx, tx, op, &exercises[i])
		if insertErr != nil {
			err = insertErr
			return 0, err
		}
		exercises[i].ID = exerciseID
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}
	return id, nil
}

func (r *workoutPlanRepository) Update(ctx context.Context, id int64, patch domain.WorkoutPlanPatch) (bool, error) {
	const op = "postgres.WorkoutPlan.Update"

	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.DurationWeeks != nil {
		b.set("duration_weeks", *patch.DurationWeeks)
	}
	if b.empty() {
		return false, nil
	}

	query, args := b.build("workout_plans", id, true)
	res, err := r.db.ExecContext(ctx, query, args...)
	return execAffected(res, err, op)
}

// Delete removes the plan; its exercises go with it.
func (r *workoutPlanRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.WorkoutPlan.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM workout_plans WHERE id = $1`, id)
	return execAffected(res, err, op)
}
