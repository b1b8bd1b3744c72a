package service

import (
	"context"
	"strings"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

// --- Service Interface ---
type ExerciseService interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	Get(ctx context.Context, id int64) (*domain.Exercise, error)
	ListByWorkoutPlan(ctx context.Context, workoutPlanID int64) ([]domain.Exercise, error)
	Create(ctx context.Context, caller Caller, workoutPlanID int64, spec ExerciseSpec) (*domain.Exercise, error)
	Update(ctx context.Context, caller Caller, id int64, patch domain.ExercisePatch) (*domain.Exercise, error)
	Delete(ctx context.Context, caller Caller, id int64) error
}

// --- Service Implementation ---

// exerciseService checks plan ownership before any write: trainers only edit
// exercises of their own plans.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	planRepo     repository.WorkoutPlanRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, planRepo repository.WorkoutPlanRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		planRepo:     planRepo,
	}
}

func (s *exerciseService) List(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.FindAll(ctx)
}

func (s *exerciseService) Get(ctx context.Context, id int64) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) ListByWorkoutPlan(ctx context.Context, workoutPlanID int64) ([]domain.Exercise, error) {
	return s.exerciseRepo.FindByWorkoutPlan(ctx, workoutPlanID)
}

// Create appends an exercise to an existing plan.
func (s *exerciseService) Create(ctx context.Context, caller Caller, workoutPlanID int64, spec ExerciseSpec) (*domain.Exercise, error) {
	exercise, err := spec.toExercise()
	if err != nil {
		return nil, err
	}
	if _, err := ownedPlan(ctx, s.planRepo, caller, workoutPlanID); err != nil {
		return nil, err
	}

	exercise.WorkoutPlanID = workoutPlanID
	id, err := s.exerciseRepo.Create(ctx, &exercise)
	if err != nil {
		return nil, mapRepoErr(err, ErrWorkoutPlanNotFound)
	}
	return s.Get(ctx, id)
}

// Update applies the present fields. A rest time of 0 is a valid value, not an omission.
func (s *exerciseService) Update(ctx context.Context, caller Caller, id int64, patch domain.ExercisePatch) (*domain.Exercise, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalidf("exercise name cannot be empty")
	}
	if (patch.Sets != nil && *patch.Sets <= 0) || (patch.Reps != nil && *patch.Reps <= 0) {
		return nil, invalidf("sets and reps must be positive")
	}
	if patch.RestTime != nil && *patch.RestTime < 0 {
		return nil, invalidf("restTime cannot be negative")
	}
	if err := s.checkOwner(ctx, caller, id); err != nil {
		return nil, err
	}

	modified, err := s.exerciseRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, mapRepoErr(err, ErrExerciseNotFound)
	}
	if !modified {
		return nil, ErrExerciseNotFound
	}
	return s.Get(ctx, id)
}

func (s *exerciseService) Delete(ctx context.Context, caller Caller, id int64) error {
	if err := s.checkOwner(ctx, caller, id); err != nil {
		return err
	}
	removed, err := s.exerciseRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrExerciseNotFound)
	}
	if !removed {
		return ErrExerciseNotFound
	}
	return nil
}

func (s *exerciseService) checkOwner(ctx context.Context, caller Caller, id int64) error {
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if caller.IsAdmin() {
		return nil
	}
	_, err = ownedPlan(ctx, s.planRepo, caller, exercise.WorkoutPlanID)
	return err
}
