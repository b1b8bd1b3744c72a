package service

import (
	"context"
	"strings"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"

	"github.com/sirupsen/logrus"
)

// ExerciseSpec describes one exercise to create. A nil RestTime gets domain.DefaultRestTime.
type ExerciseSpec struct {
	Name     string
	Sets     int
	Reps     int
	RestTime *int
	Notes    string
}

// NewWorkoutPlan is a plan with its initial exercises. TrainerID is only read
// when an admin creates the plan on a trainer's behalf.
type NewWorkoutPlan struct {
	TrainerID     int64
	Name          string
	Description   string
	DurationWeeks int
	Exercises     []ExerciseSpec
}

type WorkoutPlanService interface {
	List(ctx context.Context) ([]domain.WorkoutPlan, error)
	Get(ctx context.Context, id int64) (*domain.WorkoutPlan, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]domain.WorkoutPlan, error)
	Create(ctx context.Context, caller Caller, in NewWorkoutPlan) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, caller Caller, id int64, patch domain.WorkoutPlanPatch) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, caller Caller, id int64) error
}

type workoutPlanService struct {
	planRepo repository.WorkoutPlanRepository
	userRepo repository.UserRepository
	log      *logrus.Logger
}

func NewWorkoutPlanService(planRepo repository.WorkoutPlanRepository, userRepo repository.UserRepository, log *logrus.Logger) WorkoutPlanService {
	return &workoutPlanService{planRepo: planRepo, userRepo: userRepo, log: log}
}

func (s *workoutPlanService) List(ctx context.Context) ([]domain.WorkoutPlan, error) {
	return s.planRepo.FindAll(ctx)
}

// Get returns the plan with its exercises in insertion order.
func (s *workoutPlanService) Get(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrWorkoutPlanNotFound)
	}
	return plan, nil
}

func (s *workoutPlanService) ListByTrainer(ctx context.Context, trainerID int64) ([]domain.WorkoutPlan, error) {
	return s.planRepo.FindByTrainer(ctx, trainerID)
}

// Create stores the plan and its exercises in one transaction.
func (s *workoutPlanService) Create(ctx context.Context, caller Caller, in NewWorkoutPlan) (*domain.WorkoutPlan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidf("plan name is required")
	}
	if in.DurationWeeks < 0 {
		return nil, invalidf("durationWeeks must be positive")
	}
	if in.DurationWeeks == 0 {
		in.DurationWeeks = domain.DefaultDurationWeeks
	}

	trainerID := caller.UserID
	if caller.IsAdmin() {
		if in.TrainerID == 0 {
			return nil, invalidf("trainerId is required")
		}
		trainer, err := s.userRepo.FindByID(ctx, in.TrainerID)
		if err != nil {
			return nil, mapRepoErr(err, ErrUserNotFound)
		}
		if !trainer.IsTrainer() {
			return nil, invalidf("trainerId must reference a trainer")
		}
		trainerID = trainer.ID
	}

	exercises := make([]domain.Exercise, 0, len(in.Exercises))
	for i, spec := range in.Exercises {
		e, err := spec.toExercise()
		if err != nil {
			return nil, invalidf("exercises[%d]: %s", i, err.Error())
		}
		exercises = append(exercises, e)
	}

	id, err := s.planRepo.CreateWithExercises(ctx, &domain.WorkoutPlan{
		TrainerID:     trainerID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		DurationWeeks: in.DurationWeeks,
	}, exercises)
	if err != nil {
		return nil, mapRepoErr(err, ErrWorkoutPlanNotFound)
	}

	s.log.WithFields(logrus.Fields{"planId": id, "trainerId": trainerID, "exercises": len(exercises)}).Info("workout plan created")
	return s.Get(ctx, id)
}

func (s *workoutPlanService) Update(ctx context.Context, caller Caller, id int64, patch domain.WorkoutPlanPatch) (*domain.WorkoutPlan, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalidf("plan name cannot be empty")
	}
	if patch.DurationWeeks != nil && *patch.DurationWeeks <= 0 {
		return nil, invalidf("durationWeeks must be positive")
	}
	if _, err := ownedPlan(ctx, s.planRepo, caller, id); err != nil {
		return nil, err
	}

	modified, err := s.planRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, mapRepoErr(err, ErrWorkoutPlanNotFound)
	}
	if !modified {
		return nil, ErrWorkoutPlanNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the plan and, through the foreign key, its exercises.
func (s *workoutPlanService) Delete(ctx context.Context, caller Caller, id int64) error {
	if _, err := ownedPlan(ctx, s.planRepo, caller, id); err != nil {
		return err
	}
	removed, err := s.planRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err, ErrWorkoutPlanNotFound)
	}
	if !removed {
		return ErrWorkoutPlanNotFound
	}
	return nil
}

// ownedPlan loads the plan and checks that a non-admin caller authored it.
func ownedPlan(ctx context.Context, plans repository.WorkoutPlanRepository, caller Caller, id int64) (*domain.WorkoutPlan, error) {
	plan, err := plans.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrWorkoutPlanNotFound)
	}
	if !caller.IsAdmin() && plan.TrainerID != caller.UserID {
		return nil, forbidden("workout plan belongs to another trainer")
	}
	return plan, nil
}

func (spec ExerciseSpec) toExercise() (domain.Exercise, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return domain.Exercise{}, invalidf("exercise name is required")
	}
	if spec.Sets <= 0 || spec.Reps <= 0 {
		return domain.Exercise{}, invalidf("sets and reps must be positive")
	}
	rest := domain.DefaultRestTime
	if spec.RestTime != nil {
		if *spec.RestTime < 0 {
			return domain.Exercise{}, invalidf("restTime cannot be negative")
		}
		rest = *spec.RestTime
	}
	return domain.Exercise{
		Name:     name,
		Sets:     spec.Sets,
		Reps:     spec.Reps,
		RestTime: rest,
		Notes:    strings.TrimSpace(spec.Notes),
	}, nil
}
