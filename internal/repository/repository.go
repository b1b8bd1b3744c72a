package repository

import (
	"context"

	"gymtracker/gym-api/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound         = RepositoryError("not found")
	ErrDuplicate        = RepositoryError("duplicate value violates unique constraint")
	ErrInvalidReference = RepositoryError("referenced record does not exist")
	ErrInvalidValue     = RepositoryError("value violates a check constraint")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserFilter narrows user listings. Zero values mean "no filter".
type UserFilter struct {
	Role domain.Role
}

// SessionFilter narrows session listings. Nil fields are ignored.
type SessionFilter struct {
	MemberID  *int64
	TrainerID *int64
	Status    *domain.SessionStatus
	DateFrom  *domain.Date
	DateTo    *domain.Date
}

// Update methods report modified=false when no row has the given id.
// Delete methods report removed=false likewise.

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	FindAll(ctx context.Context, filter UserFilter) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetStats(ctx context.Context) (domain.UserStats, error)
}

// SessionRepository defines the interface for interacting with session data.
type SessionRepository interface {
	FindAll(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	FindByID(ctx context.Context, id int64) (*domain.Session, error)
	FindMissed(ctx context.Context) ([]domain.Session, error)
	Create(ctx context.Context, session *domain.Session) (int64, error)
	Update(ctx context.Context, id int64, patch domain.SessionPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetMemberStats(ctx context.Context, memberID int64) (domain.SessionStats, error)
	GetStats(ctx context.Context) (domain.SessionStats, error)
}

// MembershipRepository defines the interface for interacting with membership data.
type MembershipRepository interface {
	FindAll(ctx context.Context) ([]domain.Membership, error)
	FindByID(ctx context.Context, id int64) (*domain.Membership, error)
	FindByUser(ctx context.Context, userID int64) ([]domain.Membership, error)
	GetActiveMembership(ctx context.Context, userID int64) (*domain.Membership, error)
	Create(ctx context.Context, membership *domain.Membership) (int64, error)
	Update(ctx context.Context, id int64, patch domain.MembershipPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetStats(ctx context.Context) (domain.MembershipStats, error)
}

// WorkoutPlanRepository defines the interface for interacting with workout plan data.
type WorkoutPlanRepository interface {
	FindAll(ctx context.Context) ([]domain.WorkoutPlan, error)
	FindByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error)
	FindByTrainer(ctx context.Context, trainerID int64) ([]domain.WorkoutPlan, error)
	// CreateWithExercises stores the plan and all of its exercises atomically.
	CreateWithExercises(ctx context.Context, plan *domain.WorkoutPlan, exercises []domain.Exercise) (int64, error)
	Update(ctx context.Context, id int64, patch domain.WorkoutPlanPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	FindAll(ctx context.Context) ([]domain.Exercise, error)
	FindByID(ctx context.Context, id int64) (*domain.Exercise, error)
	FindByWorkoutPlan(ctx context.Context, workoutPlanID int64) ([]domain.Exercise, error)
	Create(ctx context.Context, exercise *domain.Exercise) (int64, error)
	Update(ctx context.Context, id int64, patch domain.ExercisePatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ReviewRepository defines the interface for interacting with review data.
type ReviewRepository interface {
	FindAll(ctx context.Context) ([]domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	FindByTrainer(ctx context.Context, trainerID int64) ([]domain.Review, error)
	Create(ctx context.Context, review *domain.Review) (int64, error)
	Update(ctx context.Context, id int64, patch domain.ReviewPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetAverageRating(ctx context.Context, trainerID int64) (domain.TrainerRating, error)
}

// APILogEntry is one handled HTTP request as recorded by the request logger.
type APILogEntry struct {
	RequestID  string
	Method     string
	Path       string
	Status     int
	DurationMs int64
	ClientIP   string
	UserID     int64
	Role       domain.Role
}

// APILogRepository persists request log entries.
type APILogRepository interface {
	Insert(ctx context.Context, entry APILogEntry) error
}
