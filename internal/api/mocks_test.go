package api

import (
	"context"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
	"gymtracker/gym-api/internal/service"

	"github.com/stretchr/testify/mock"
)

// The mocks embed their service interface so only the methods a test
// exercises need an implementation; any other call panics.

type authServiceMock struct {
	service.AuthService
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, account service.NewAccount) (string, *domain.User, error) {
	args := m.Called(ctx, account)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

type planServiceMock struct {
	service.WorkoutPlanService
	mock.Mock
}

func (m *planServiceMock) List(ctx context.Context) ([]domain.WorkoutPlan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]domain.WorkoutPlan)
	return plans, args.Error(1)
}

func (m *planServiceMock) Create(ctx context.Context, caller service.Caller, in service.NewWorkoutPlan) (*domain.WorkoutPlan, error) {
	args := m.Called(ctx, caller, in)
	plan, _ := args.Get(0).(*domain.WorkoutPlan)
	return plan, args.Error(1)
}

type sessionServiceMock struct {
	service.SessionService
	mock.Mock
}

func (m *sessionServiceMock) List(ctx context.Context, caller service.Caller, filter repository.SessionFilter) ([]domain.Session, error) {
	args := m.Called(ctx, caller, filter)
	sessions, _ := args.Get(0).([]domain.Session)
	return sessions, args.Error(1)
}

func (m *sessionServiceMock) Complete(ctx context.Context, caller service.Caller, id int64, completed []int64) (*domain.Session, error) {
	args := m.Called(ctx, caller, id, completed)
	session, _ := args.Get(0).(*domain.Session)
	return session, args.Error(1)
}

func (m *sessionServiceMock) Missed(ctx context.Context) ([]domain.Session, error) {
	args := m.Called(ctx)
	sessions, _ := args.Get(0).([]domain.Session)
	return sessions, args.Error(1)
}

type membershipServiceMock struct {
	service.MembershipService
	mock.Mock
}

func (m *membershipServiceMock) Active(ctx context.Context, caller service.Caller, userID int64) (*domain.Membership, error) {
	args := m.Called(ctx, caller, userID)
	membership, _ := args.Get(0).(*domain.Membership)
	return membership, args.Error(1)
}

type apiLogRecorder struct {
	entries chan repository.APILogEntry
}

func (r *apiLogRecorder) Insert(_ context.Context, entry repository.APILogEntry) error {
	r.entries <- entry
	return nil
}
