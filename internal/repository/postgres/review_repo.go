package postgres

import (
	"context"
	"database/sql"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

const reviewSelect = `
SELECT rv.id, rv.client_id, rv.trainer_id, rv.workout_plan_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
       c.name, COALESCE(t.name, ''), COALESCE(wp.name, '')
FROM reviews rv
JOIN users c ON c.id = rv.client_id
LEFT JOIN users t ON t.id = rv.trainer_id
LEFT JOIN workout_plans wp ON wp.id = rv.workout_plan_id`

// reviewRepository implements repository.ReviewRepository on PostgreSQL.
type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var (
		rv                domain.Review
		trainerID, planID sql.NullInt64
	)
	err := row.Scan(&rv.ID, &rv.ClientID, &trainerID, &planID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
		&rv.ClientName, &rv.TrainerName, &rv.WorkoutPlanName)
	if err != nil {
		return nil, err
	}
	rv.TrainerID = int64Ptr(trainerID)
	rv.WorkoutPlanID = int64Ptr(planID)
	return &rv, nil
}

func (r *reviewRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return reviews, nil
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]domain.Review, error) {
	return r.list(ctx, "postgres.Review.FindAll", reviewSelect+" ORDER BY rv.created_at DESC, rv.id DESC")
}

func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	const op = "postgres.Review.FindByID"

	rv, err := scanReview(r.db.QueryRowContext(ctx, reviewSelect+" WHERE rv.id = $1", id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return rv, nil
}

func (r *reviewRepository) FindByTrainer(ctx context.Context, trainerID int64) ([]domain.Review, error) {
	return r.list(ctx, "postgres.Review.FindByTrainer",
		reviewSelect+" WHERE rv.trainer_id = $1 ORDER BY rv.created_at DESC, rv.id DESC", trainerID)
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) (int64, error) {
	const op = "postgres.Review.Create"

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (client_id, trainer_id, workout_plan_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		review.ClientID, nullableID(review.TrainerID), nullableID(review.WorkoutPlanID), review.Rating, review.Comment,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

func (r *reviewRepository) Update(ctx context.Context, id int64, patch domain.ReviewPatch) (bool, error) {
	const op = "postgres.Review.Update"

	var b updateBuilder
	if patch.Rating != nil {
		b.set("rating", *patch.Rating)
	}
	if patch.Comment != nil {
		b.set("comment", *patch.Comment)
	}
	if b.empty() {
		return false, nil
	}

	query, args := b.build("reviews", id, true)
	res, err := r.db.ExecContext(ctx, query, args...)
	return execAffected(res, err, op)
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.Review.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return execAffected(res, err, op)
}

// GetAverageRating returns the trainer's mean rating rounded to two decimals; 0 without reviews.
func (r *reviewRepository) GetAverageRating(ctx context.Context, trainerID int64) (domain.TrainerRating, error) {
	const op = "postgres.Review.GetAverageRating"

	var tr domain.TrainerRating
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8, COUNT(*)
		FROM reviews
		WHERE trainer_id = $1`, trainerID,
	).Scan(&tr.AverageRating, &tr.TotalReviews)
	if err != nil {
		return domain.TrainerRating{}, wrapErr(op, err)
	}
	return tr, nil
}
