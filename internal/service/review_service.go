package service

import (
	"context"
	"strings"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

// NewReview is a rating of a trainer. When TrainerID is nil the trainer of
// WorkoutPlanID is reviewed.
type NewReview struct {
	TrainerID     *int64
	WorkoutPlanID *int64
	Rating        int
	Comment       string
}

type ReviewService interface {
	List(ctx context.Context) ([]domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]domain.Review, error)
	TrainerRating(ctx context.Context, trainerID int64) (domain.TrainerRating, error)
	Create(ctx context.Context, caller Caller, in NewReview) (*domain.Review, error)
	// Update and Delete are limited to the review's author and admins.
	Update(ctx context.Context, caller Caller, id int64, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, caller Caller, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	planRepo   repository.WorkoutPlanRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository, planRepo repository.WorkoutPlanRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, userRepo: userRepo, planRepo: planRepo}
}

func (s *reviewService) List(ctx context.Context) ([]domain.Review, error) {
	return s.reviewRepo.FindAll(ctx)
}

func (s *reviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrReviewNotFound)
	}
	return review, nil
}

func (s *reviewService) ListByTrainer(ctx context.Context, trainerID int64) ([]domain.Review, error) {
	return s.reviewRepo.FindByTrainer(ctx, trainerID)
}

func (s *reviewService) TrainerRating(ctx context.Context, trainerID int64) (domain.TrainerRating, error) {
	return s.reviewRepo.GetAverageRating(ctx, trainerID)
}

func (s *reviewService) Create(ctx context.Context, caller Caller, in NewReview) (*domain.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	trainerID := in.TrainerID
	if in.WorkoutPlanID != nil {
		plan, err := s.planRepo.FindByID(ctx, *in.WorkoutPlanID)
		if err != nil {
			return nil, mapRepoErr(err, ErrWorkoutPlanNotFound)
		}
		if trainerID == nil {
			trainerID = &plan.TrainerID
		} else if *trainerID != plan.TrainerID {
			return nil, invalidf("workout plan does not belong to this trainer")
		}
	}
	if trainerID == nil {
		return nil, invalidf("trainerId or workoutPlanId is required")
	}
	if *trainerID == caller.UserID {
		return nil, invalidf("trainers cannot review themselves")
	}

	trainer, err := s.userRepo.FindByID(ctx, *trainerID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	if !trainer.IsTrainer() {
		return nil, invalidf("trainerId must reference a trainer")
	}

	id, err := s.reviewRepo.Create(ctx, &domain.Review{
		ClientID:      caller.UserID,
		TrainerID:     trainerID,
		WorkoutPlanID: in.WorkoutPlanID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrReviewNotFound)
	}
	return s.Get(ctx, id)
}

func (s *reviewService) Update(ctx context.Context, caller Caller, id int64, patch domain.ReviewPatch) (*domain.Review, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
	}
	if err := s.checkAuthor(ctx, caller, id); err != nil {
		return nil, err
	}

	modified, err := s.reviewRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, mapRepoErr(err, ErrReviewNotFound)
	}
	if !modified {
		return nil, ErrReviewNotFound
	}
	return s.Get(ctx, id)
}

func (s *reviewService) Delete(ctx context.Context, caller Caller, id int64) error {
	if err := s.checkAuthor(ctx, caller, id); err != nil {
		return err
	}
	removed, err := s.reviewRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrReviewNotFound)
	}
	if !removed {
		return ErrReviewNotFound
	}
	return nil
}

func (s *reviewService) checkAuthor(ctx context.Context, caller Caller, id int64) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && review.ClientID != caller.UserID {
		return forbidden("only the author can modify this review")
	}
	return nil
}

func validateRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return invalidf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	return nil
}
